// Package rsx codifica y decodifica los documentos SPS Commerce RSX
// (850/855/810/856/945). La lectura es tolerante: todo elemento ausente
// degrada a cadena vacía y nunca corta el documento completo.
package rsx

import (
	"encoding/xml"

	"github.com/beevik/etree"
)

// Codec codifica y decodifica documentos RSX. Sin estado; existe para
// inyectarse como dependencia en los sincronizadores.
type Codec struct{}

// NewCodec crea el servicio.
func NewCodec() *Codec {
	return &Codec{}
}

// childElement primer hijo con el tag dado, ignorando el namespace. Los
// documentos llegan a veces con prefijo sps: y a veces con namespace por
// defecto, así que se compara solo el nombre local.
func childElement(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// childElements todos los hijos con el tag dado, ignorando el namespace.
func childElements(parent *etree.Element, tag string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var list []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			list = append(list, child)
		}
	}
	return list
}

// EleText texto del hijo con el tag dado. Padre nil o elemento ausente
// devuelven cadena vacía.
func EleText(parent *etree.Element, tag string) string {
	ele := childElement(parent, tag)
	if ele == nil {
		return ""
	}
	return ele.Text()
}

// writeEle emite <local>value</local>.
func writeEle(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

// openEle / closeEle delimitan un bloque contenedor.
func openEle(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
}

func closeEle(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

// Package rsx contiene los catálogos de códigos del formato SPS Commerce RSX
// usados por los documentos 850/855/810/856/945.
package rsx

// Namespace namespace único del RSX; todos los elementos y atributos de los
// documentos entrantes llegan calificados con él.
const Namespace = "http://www.spscommerce.com/RSX"

// DateFormat formato de fecha del intercambio (AAAA-MM-DD).
const DateFormat = "2006-01-02"

// TimeFormat formato de hora del intercambio.
const TimeFormat = "15:04:05"

// =============================================================================
// TsetPurposeCode - propósito de la transmisión
// =============================================================================

const (
	TsetPurposeOriginal     = "00" // Original
	TsetPurposeConfirmation = "06" // Confirmación
	TsetPurposeUnavailable  = "NA" // No disponible
)

// ValidTsetPurposeCodes códigos de propósito admitidos; el resto degrada a NA.
var ValidTsetPurposeCodes = map[string]bool{
	TsetPurposeOriginal: true, TsetPurposeConfirmation: true,
}

// =============================================================================
// PrimaryPOTypeCode - tipo de orden de compra
// =============================================================================

const (
	POTypeStandAlone   = "SA"
	POTypeNewOrder     = "NE"
	POTypePromotion    = "PR"
	POTypeRushOrder    = "RO"
	POTypeConfirmation = "CF"
	POTypeUnavailable  = "NA"
)

var ValidPrimaryPOTypeCodes = map[string]bool{
	POTypeStandAlone: true, POTypeNewOrder: true, POTypePromotion: true,
	POTypeRushOrder: true, POTypeConfirmation: true,
}

// =============================================================================
// ItemStatusCode - estado del renglón en el acknowledgement 855
// =============================================================================

const (
	ItemStatusAccept          = "IA" // Aceptado
	ItemStatusBackordered     = "IB" // En backorder
	ItemStatusPriceChanged    = "IP" // Aceptado con cambio de precio
	ItemStatusQuantityChanged = "IQ" // Aceptado con cambio de cantidad
)

// =============================================================================
// Unidades de medida del intercambio
// =============================================================================

const (
	UOMEach   = "EA" // Unidades
	UOMCase   = "CA" // Cajas
	UOMPallet = "PL" // Pallets
)

// CaseUOMCodes códigos que se emiten como cantidad de cajas (redondeada arriba).
var CaseUOMCodes = map[string]bool{UOMCase: true, UOMPallet: true}

// WellKnownUOMCodes códigos para los que no se genera nota de sustitución
// cuando faltan en el catálogo local.
var WellKnownUOMCodes = map[string]bool{UOMEach: true, UOMCase: true}

// =============================================================================
// AddressTypeCode - rol de cada bloque de dirección
// =============================================================================

const (
	AddressShipFrom = "SF" // Origen del envío
	AddressShipTo   = "ST" // Destino del envío
	AddressBillTo   = "BT" // Facturación
	AddressRemitTo  = "RI" // Remitente de la factura
)

// =============================================================================
// ContactTypeCode
// =============================================================================

const (
	ContactBuyer     = "BD" // Comprador
	ContactReceiving = "RE" // Recepción
	ContactDelivery  = "DI" // Entrega (usado en cabecera del 856)
)

// ContactLabel etiqueta legible para el blob de contactos del documento.
func ContactLabel(code string) string {
	if code == ContactBuyer {
		return "Buyer Contact"
	}
	return "Receiving Contact"
}

// =============================================================================
// LocationCodeQualifier
// =============================================================================

const (
	LocationQualGLN       = "UL" // Global Location Number
	LocationQualDunsPlus4 = "9"  // Duns Plus 4
	LocationQualBuyer     = "92" // Número de local del comprador
	LocationQualDuns      = "1"  // Duns
)

// =============================================================================
// CarrierTransMethodCode
// =============================================================================

const (
	CarrierMotor   = "M" // Motor (common carrier), valor por defecto
	CarrierPrivate = "P"
	CarrierAir     = "A"
)

var ValidCarrierTransMethodCodes = map[string]bool{
	"A": true, "C": true, "M": true, "P": true, "BU": true, "E": true,
	"H": true, "L": true, "R": true, "O": true, "T": true,
}

// =============================================================================
// ReferenceQual / NoteCode
// =============================================================================

const (
	ReferenceQualBillingAccount = "12"
	ReferenceQualAgreement      = "AH"
	ReferenceQualInternal       = "IT"
	ReferenceQualContract       = "CT"
	ReferenceQualMerchType      = "MR" // 810: referencia al Merchandise Type Code
	ReferenceQualLot            = "LT" // 856: número de lote a nivel ítem
	ReferenceQualUnavailable    = "NA"
)

var ValidReferenceQuals = map[string]bool{
	ReferenceQualBillingAccount: true, ReferenceQualAgreement: true,
	ReferenceQualInternal: true, ReferenceQualContract: true,
}

const (
	NoteCodeGeneral     = "GEN" // también el reemplazo de códigos fuera de catálogo
	NoteCodeShipping    = "SHP"
	NoteCodeUnavailable = "NA"
)

var ValidNoteCodes = map[string]bool{NoteCodeGeneral: true, NoteCodeShipping: true}

// =============================================================================
// DateTimeQualifier - tipo de fecha del bloque Dates
// =============================================================================

const (
	DateQualDelivery = "002" // Entrega solicitada / compromiso
	DateQualPickup   = "118" // Recogida solicitada
	DateQualExpiry   = "036" // Vencimiento (lote, 856)
)

// =============================================================================
// Códigos de impuestos (línea de factura / orden)
// =============================================================================

const (
	TaxCodeGST        = "GS" // Goods and Services
	TaxCodeState      = "ST" // Venta estatal/provincial
	TaxCodeAll        = "TX" // Todos los impuestos (placeholder por defecto)
	TaxCodeHST        = "BE" // Harmonized Sales
	TaxCodeProvincial = "PG"
	TaxCodeLocalSales = "LS" // Por defecto en el 810 cuando la línea no trae código
)

// =============================================================================
// Cargos y descuentos (ChargesAllowances)
// =============================================================================

const (
	ChargeIndicatorAllowance = "A"
	ChargeIndicatorCharge    = "C"
	ChargeIndicatorNone      = "N"
)

// =============================================================================
// Términos de pago
// =============================================================================

// TermsTypeImmediate tipo de término que representa pago inmediato.
const TermsTypeImmediate = "10"

// =============================================================================
// Otros valores fijos del intercambio
// =============================================================================

const (
	AckTypeDetailChange    = "AC"   // Acknowledge con detalle y cambios (por defecto)
	AckTypeReplenishment   = "AP"   // Acknowledge de reposición
	ScheduleQualifier      = "068"  // ItemScheduleQualifier fijo del 855
	ProductCharacteristic  = "08"   // ProductCharacteristicCode fijo
	QuantityTotalsSummary  = "SQT"  // Summary Quantity Totals
	ASNStructureStandard   = "0001" // Estructura pick-and-pack del 856
	PackLevelPallet        = "P"    // PackLevelType de pallet
	MarksQualifierWarehous = "W"    // MarksAndNumbersQualifier1
)

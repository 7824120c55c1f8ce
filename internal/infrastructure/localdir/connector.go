// Package localdir implementa el conector de intercambio sobre un directorio
// del sistema de archivos. Es el conector de desarrollo y pruebas; en
// producción el integrador aporta el conector SFTP/FTP con el mismo contrato.
package localdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tu-usuario/edi-pro/internal/application/edisync"
)

// Connector conector de directorio local. Los directorios remotos se
// interpretan como rutas relativas a la raíz configurada.
type Connector struct {
	root string
	cwd  string

	connected bool
}

var _ edisync.Connector = (*Connector)(nil)

// New crea el conector con la raíz dada.
func New(root string) *Connector {
	return &Connector{root: root}
}

// Connect verifica que la raíz exista y sea un directorio.
func (c *Connector) Connect(_ context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("localdir: abrir raíz %q: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("localdir: la raíz %q no es un directorio", c.root)
	}
	c.connected = true
	c.cwd = c.root
	return nil
}

// Cd cambia el directorio de trabajo, creándolo si no existe.
func (c *Connector) Cd(_ context.Context, dirPath string) error {
	if !c.connected {
		return fmt.Errorf("localdir: no conectado")
	}
	target := filepath.Join(c.root, filepath.FromSlash(dirPath))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("localdir: crear directorio %q: %w", dirPath, err)
	}
	c.cwd = target
	return nil
}

// List nombres de archivo del directorio de trabajo, sin subdirectorios.
func (c *Connector) List(_ context.Context) ([]string, error) {
	if !c.connected {
		return nil, fmt.Errorf("localdir: no conectado")
	}
	entries, err := os.ReadDir(c.cwd)
	if err != nil {
		return nil, fmt.Errorf("localdir: listar %q: %w", c.cwd, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Download lee un archivo del directorio de trabajo.
func (c *Connector) Download(_ context.Context, filename string) ([]byte, error) {
	if !c.connected {
		return nil, fmt.Errorf("localdir: no conectado")
	}
	data, err := os.ReadFile(filepath.Join(c.cwd, filename))
	if err != nil {
		return nil, fmt.Errorf("localdir: descargar %q: %w", filename, err)
	}
	return data, nil
}

// Upload escribe un archivo en el directorio de trabajo.
func (c *Connector) Upload(_ context.Context, filename string, data []byte) error {
	if !c.connected {
		return fmt.Errorf("localdir: no conectado")
	}
	if err := os.WriteFile(filepath.Join(c.cwd, filename), data, 0o644); err != nil {
		return fmt.Errorf("localdir: subir %q: %w", filename, err)
	}
	return nil
}

// Disconnect cierra la sesión. Idempotente.
func (c *Connector) Disconnect(_ context.Context) error {
	c.connected = false
	c.cwd = ""
	return nil
}

package localdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectorCicloCompleto(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	conn := New(root)
	require.NoError(t, conn.Connect(ctx))

	// Cd crea el directorio si no existe.
	require.NoError(t, conn.Cd(ctx, "in/orders"))

	require.NoError(t, conn.Upload(ctx, "850_test.xml", []byte("<Orders/>")))

	names, err := conn.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"850_test.xml"}, names)

	data, err := conn.Download(ctx, "850_test.xml")
	require.NoError(t, err)
	assert.Equal(t, "<Orders/>", string(data))

	require.NoError(t, conn.Disconnect(ctx))

	// El archivo quedó bajo la raíz configurada.
	_, err = os.Stat(filepath.Join(root, "in", "orders", "850_test.xml"))
	assert.NoError(t, err)
}

func TestConnectorListIgnoraSubdirectorios(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out", "acks", "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "acks", "a.xml"), []byte("x"), 0o644))

	conn := New(root)
	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.Cd(ctx, "out/acks"))

	names, err := conn.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xml"}, names)
}

func TestConnectorOperacionesSinConectar(t *testing.T) {
	conn := New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, conn.Cd(ctx, "in"))
	_, err := conn.List(ctx)
	assert.Error(t, err)
	_, err = conn.Download(ctx, "x.xml")
	assert.Error(t, err)
	assert.Error(t, conn.Upload(ctx, "x.xml", nil))
}

func TestConnectorRaizInexistente(t *testing.T) {
	conn := New(filepath.Join(t.TempDir(), "no-existe"))
	assert.Error(t, conn.Connect(context.Background()))
}

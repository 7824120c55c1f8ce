package edisync

import "context"

// Connector abstrae la conexión al servidor de intercambio (SFTP/FTP del VAN
// o un directorio local en desarrollo). El sincronizador abre la conexión una
// sola vez por corrida y la cierra al final, pase lo que pase con los
// registros individuales.
type Connector interface {
	Connect(ctx context.Context) error

	// Cd cambia el directorio remoto de trabajo.
	Cd(ctx context.Context, dirPath string) error

	// List nombres de archivo del directorio de trabajo actual.
	List(ctx context.Context) ([]string, error)

	Download(ctx context.Context, filename string) ([]byte, error)
	Upload(ctx context.Context, filename string, data []byte) error

	Disconnect(ctx context.Context) error
}

// SyncAction una corrida de sincronización: qué documento y sobre qué
// directorio remoto.
type SyncAction struct {
	DocCode string // import_orders | export_acks | export_invoices | export_shipments | import_advices
	DirPath string
}

// Códigos de documento de las acciones de sincronización.
const (
	DocImportOrders    = "import_orders"    // 850
	DocExportAcks      = "export_acks"      // 855
	DocExportInvoices  = "export_invoices"  // 810
	DocExportShipments = "export_shipments" // 856
	DocImportAdvices   = "import_advices"   // 945
)

package edisync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

// importAdvices descarga los 945 del directorio remoto y registra los avisos
// de despacho de bodega. La conciliación contra las entregas es del módulo de
// inventario; aquí solo se persiste el documento una única vez por archivo.
func (s *Service) importAdvices(ctx context.Context) error {
	log := s.log.ForDoc("945")

	files, err := s.conn.List(ctx)
	if err != nil {
		return fmt.Errorf("listar directorio remoto: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Msg("directorio remoto vacío")
		return nil
	}

	for _, file := range files {
		if !strings.HasSuffix(file, ".xml") {
			continue
		}

		existing, err := s.advices.GetBySourceFile(ctx, file)
		if err != nil {
			return fmt.Errorf("verificar aviso del archivo %q: %w", file, err)
		}
		if existing != nil {
			log.Debug().Str("file", file).Msg("archivo ya importado, saltando")
			continue
		}

		data, err := s.conn.Download(ctx, file)
		if err != nil {
			log.Error().Str("file", file).Err(err).Msg("descarga falló")
			continue
		}

		doc, err := s.codec.DecodeAdvice(data)
		if errors.Is(err, rsx.ErrWrongDocument) {
			// El directorio puede mezclar otros documentos (850).
			log.Debug().Str("file", file).Msg("no es un 945, saltando")
			continue
		}
		if err != nil {
			log.Error().Str("file", file).Err(err).Msg("archivo ilegible")
			continue
		}

		if err := s.importAdvice(ctx, doc, file); err != nil {
			log.Error().Str("file", file).Err(err).Msg("importación de aviso falló")
		}
	}
	return nil
}

// importAdvice crea el aviso y sus renglones desde el documento decodificado.
func (s *Service) importAdvice(ctx context.Context, doc *rsx.AdviceDocument, sourceFile string) error {
	now := s.now()

	advice := &entity.WarehouseAdvice{
		ID:                     uuid.New().String(),
		PONumber:               doc.PONumber,
		Vendor:                 doc.Vendor,
		ShipmentIdentification: doc.ShipmentIdentification,
		BillOfLadingNumber:     doc.BillOfLadingNumber,
		SourceFile:             sourceFile,

		// El aviso entra ya intercambiado; no pasa por pending.
		EDIStatus: entity.EDIStatusSent,
		EDIDate:   &now,
	}
	if doc.PODate != "" {
		poDate, err := s.parseLocalDate(doc.PODate, "")
		if err != nil {
			return fmt.Errorf("fecha de PO %q: %w", doc.PODate, err)
		}
		advice.PODate = &poDate
	}

	if err := s.advices.Create(ctx, advice); err != nil {
		return fmt.Errorf("crear aviso: %w", err)
	}

	for _, line := range doc.Lines {
		err := s.advices.CreateLine(ctx, &entity.AdviceLine{
			ID:       uuid.New().String(),
			AdviceID: advice.ID,

			LineSequenceNumber:  line.LineSequenceNumber,
			BuyerPartNumber:     line.BuyerPartNumber,
			VendorPartNumber:    line.VendorPartNumber,
			ConsumerPackageCode: line.ConsumerPackageCode,

			ShipQty:   parseDecimal(line.ShipQty),
			UOMCode:   line.ShipQtyUOM,
			PackValue: parseDecimal(line.PackValue),

			PalletSerial: line.PalletSerial,
		})
		if err != nil {
			return fmt.Errorf("crear renglón del aviso: %w", err)
		}
	}

	s.log.ForDoc("945").Info().
		Str("file", sourceFile).
		Str("po", doc.PONumber).
		Int("lines", len(doc.Lines)).
		Msg("aviso de despacho importado")
	return nil
}

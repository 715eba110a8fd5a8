package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// Preview datos de presentación de un borrador para su representación impresa o XML.
type Preview struct {
	DraftID     string
	Document    *document.Document
	Customer    *entity.Customer  // nil si la cabecera no tiene cliente
	Warehouse   *entity.Warehouse // nil si la cabecera no tiene almacén
	GeneratedAt time.Time
}

// PDFRenderer genera la vista previa imprimible de un borrador.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, p Preview) ([]byte, error)
}

// XMLRenderer genera la representación UBL del borrador y su digest canónico.
type XMLRenderer interface {
	RenderXML(ctx context.Context, p Preview) (content []byte, digest string, err error)
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Digest      string // SHA-256 base64 del XML canónico; vacío en PDF
}

// ExportUseCase vista previa PDF y exportación XML de borradores.
type ExportUseCase struct {
	drafts     *DraftUseCase
	customers  repository.CustomerRepository
	warehouses repository.WarehouseRepository
	pdf        PDFRenderer
	xml        XMLRenderer
	now        func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	drafts *DraftUseCase,
	customers repository.CustomerRepository,
	warehouses repository.WarehouseRepository,
	pdf PDFRenderer,
	xml XMLRenderer,
) *ExportUseCase {
	return &ExportUseCase{
		drafts:     drafts,
		customers:  customers,
		warehouses: warehouses,
		pdf:        pdf,
		xml:        xml,
		now:        time.Now,
	}
}

// PDF genera la vista previa imprimible del borrador.
func (uc *ExportUseCase) PDF(ctx context.Context, companyID, draftID string) (*ExportFile, error) {
	p, err := uc.preview(ctx, companyID, draftID)
	if err != nil {
		return nil, err
	}
	content, err := uc.pdf.RenderPDF(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("exportar pdf: %w", err)
	}
	return &ExportFile{
		Filename:    exportName(p, "pdf"),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// XML genera el documento UBL del borrador.
func (uc *ExportUseCase) XML(ctx context.Context, companyID, draftID string) (*ExportFile, error) {
	p, err := uc.preview(ctx, companyID, draftID)
	if err != nil {
		return nil, err
	}
	content, digest, err := uc.xml.RenderXML(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("exportar xml: %w", err)
	}
	return &ExportFile{
		Filename:    exportName(p, "xml"),
		ContentType: "application/xml",
		Content:     content,
		Digest:      digest,
	}, nil
}

func (uc *ExportUseCase) preview(ctx context.Context, companyID, draftID string) (*Preview, error) {
	doc, err := uc.drafts.Document(ctx, companyID, draftID)
	if err != nil {
		return nil, err
	}
	p := &Preview{DraftID: draftID, Document: doc, GeneratedAt: uc.now()}

	h := doc.Header()
	if h.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, h.CustomerID)
		if err != nil {
			return nil, err
		}
		if c != nil && c.CompanyID == companyID {
			p.Customer = c
		}
	}
	if h.WarehouseID != "" {
		w, err := uc.warehouses.GetByID(ctx, h.WarehouseID)
		if err != nil {
			return nil, err
		}
		if w != nil && w.CompanyID == companyID {
			p.Warehouse = w
		}
	}
	return p, nil
}

func exportName(p *Preview, ext string) string {
	t := strings.ToLower(strings.ReplaceAll(string(p.Document.Type()), "_", "-"))
	return fmt.Sprintf("borrador-%s-%s.%s", t, p.DraftID, ext)
}

package stamp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signintech/gopdf"

	"radicado/internal/config"
)

const stampFont = "stamp"

const (
	qrSize       = 64.0
	qrPixels     = 256
	pageMargin   = 24.0
	metaBoxWidth = 182.0
	metaBoxLine  = 13.0
	sigMarginX   = 70.0
	sigImageW    = 150.0
	sigImageH    = 50.0
)

// Region is a rectangle on the first page, top-origin.
type Region struct {
	X, Y, W, H float64
}

// Request describes one stamping job.
type Request struct {
	DocumentID      string
	CaseCode        string
	Date            time.Time
	AttachmentCount int
	SignerName      string
	SignerRole      string
	// SignatureImage is an optional PNG overlaid at the resolved anchor.
	SignatureImage []byte
	// PatchRegion overrides where the provisional case code was baked into
	// the layout during drafting. Nil uses the standard header table cell.
	PatchRegion *Region
}

// Result reports what the engine managed to place. A missing anchor is a
// degradation, not an error: the QR and case-code stamp always land.
type Result struct {
	AnchorFound     bool
	SignaturePlaced bool
	Source          AnchorSource
}

// Engine overlays the QR stamp, the corrected case-code patch and the
// signature block onto fixed-layout artifacts. Output is deterministic for
// identical inputs.
type Engine struct {
	fontData []byte
	secret   string
}

// NewEngine loads the stamp font. The font program is embedded into every
// stamped artifact, so a missing file is a construction-time error.
func NewEngine(cfg config.StampConfig) (*Engine, error) {
	font, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load stamp font: %w", err)
	}
	return &Engine{fontData: font, secret: cfg.Secret}, nil
}

// defaultPatchRegion covers the case-code cell of the standard letterhead
// table, relative to the page's top-right corner.
func defaultPatchRegion(pageWidth float64) Region {
	return Region{X: pageWidth - 250, Y: 92, W: 226, H: 16}
}

// Stamp rebuilds the artifact page by page, overlaying the QR/metadata stamp
// on the first page and the signature block at the resolved anchor. The
// patch overwrites the provisional placeholder code baked into the layout
// during drafting, so the editable source never needs regenerating.
func (e *Engine) Stamp(src []byte, req Request) ([]byte, Result, error) {
	pages, err := ExtractLayout(src)
	if err != nil {
		return nil, Result{}, fmt.Errorf("stamp %s: %w", req.DocumentID, err)
	}

	anchor, anchorOK := ResolveAnchor(pages)
	res := Result{AnchorFound: anchorOK, Source: anchor.Source}

	qrPNG, err := EncodeQR(Payload{
		DocumentID: req.DocumentID,
		CaseCode:   req.CaseCode,
		Token:      IntegrityToken(e.secret, req.DocumentID, req.CaseCode),
	}, qrPixels)
	if err != nil {
		return nil, Result{}, err
	}

	out := &gopdf.GoPdf{}
	out.Start(gopdf.Config{PageSize: gopdf.Rect{W: pages[0].Width, H: pages[0].Height}})
	if err := out.AddTTFFontData(stampFont, e.fontData); err != nil {
		return nil, Result{}, fmt.Errorf("register stamp font: %w", err)
	}

	var rs io.ReadSeeker = bytes.NewReader(src)
	for _, page := range pages {
		out.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: page.Width, H: page.Height}})
		tpl := out.ImportPageStream(&rs, page.Number, "/MediaBox")
		out.UseImportedTemplate(tpl, 0, 0, page.Width, page.Height)

		if page.Number == 1 {
			if err := e.drawHeaderStamp(out, page, req, qrPNG); err != nil {
				return nil, Result{}, err
			}
		}
		if anchorOK && anchor.Page == page.Number {
			placed, err := e.drawSignature(out, page, anchor, req)
			if err != nil {
				return nil, Result{}, err
			}
			res.SignaturePlaced = placed
		}
	}

	stamped, err := out.GetBytesPdfReturnErr()
	if err != nil {
		return nil, Result{}, fmt.Errorf("write stamped pdf: %w", err)
	}
	return stamped, res, nil
}

func (e *Engine) drawHeaderStamp(out *gopdf.GoPdf, page PageLayout, req Request, qrPNG []byte) error {
	qrX := page.Width - pageMargin - qrSize
	qrY := pageMargin

	holder, err := gopdf.ImageHolderByBytes(qrPNG)
	if err != nil {
		return fmt.Errorf("qr image holder: %w", err)
	}
	if err := out.ImageByHolder(holder, qrX, qrY, &gopdf.Rect{W: qrSize, H: qrSize}); err != nil {
		return fmt.Errorf("place qr: %w", err)
	}

	// Bordered metadata box to the left of the QR.
	boxX := qrX - 8 - metaBoxWidth
	boxH := 3*metaBoxLine + 10
	out.SetStrokeColor(0, 0, 0)
	out.SetLineWidth(0.6)
	out.RectFromUpperLeftWithStyle(boxX, qrY, metaBoxWidth, boxH, "D")

	if err := out.SetFont(stampFont, "", 9); err != nil {
		return err
	}
	out.SetTextColor(20, 20, 20)
	lines := []string{
		req.CaseCode,
		"Fecha: " + req.Date.Format("02/01/2006"),
		fmt.Sprintf("Anexos: %d", req.AttachmentCount),
	}
	for i, line := range lines {
		out.SetX(boxX + 6)
		out.SetY(qrY + 6 + float64(i)*metaBoxLine)
		if err := out.Cell(nil, line); err != nil {
			return err
		}
	}

	// Blank the provisional placeholder code and draw the final one.
	patch := defaultPatchRegion(page.Width)
	if req.PatchRegion != nil {
		patch = *req.PatchRegion
	}
	out.SetFillColor(255, 255, 255)
	out.RectFromUpperLeftWithStyle(patch.X, patch.Y, patch.W, patch.H, "F")
	if err := out.SetFont(stampFont, "", 10); err != nil {
		return err
	}
	out.SetX(patch.X + 4)
	out.SetY(patch.Y + 3)
	return out.Cell(nil, req.CaseCode)
}

func (e *Engine) drawSignature(out *gopdf.GoPdf, page PageLayout, anchor Anchor, req Request) (bool, error) {
	placed := false

	y := anchor.Y
	if y > page.Height-pageMargin {
		y = page.Height - pageMargin
	}
	if y < pageMargin {
		y = pageMargin
	}

	if len(req.SignatureImage) > 0 {
		holder, err := gopdf.ImageHolderByBytes(req.SignatureImage)
		if err != nil {
			return false, fmt.Errorf("signature image holder: %w", err)
		}
		imgY := y - sigImageH
		if imgY < pageMargin {
			imgY = pageMargin
		}
		if err := out.ImageByHolder(holder, sigMarginX, imgY, &gopdf.Rect{W: sigImageW, H: sigImageH}); err != nil {
			return false, fmt.Errorf("place signature image: %w", err)
		}
		placed = true
	}

	// A placeholder marker already carries its own printed label; only the
	// image goes on top of it.
	if anchor.Source != AnchorPlaceholder && req.SignerName != "" {
		if err := out.SetFont(stampFont, "", 10); err != nil {
			return placed, err
		}
		out.SetTextColor(20, 20, 20)
		out.SetX(sigMarginX)
		out.SetY(y + 6)
		if err := out.Cell(nil, req.SignerName); err != nil {
			return placed, err
		}
		if req.SignerRole != "" {
			if err := out.SetFont(stampFont, "", 8); err != nil {
				return placed, err
			}
			out.SetX(sigMarginX)
			out.SetY(y + 6 + metaBoxLine)
			if err := out.Cell(nil, req.SignerRole); err != nil {
				return placed, err
			}
		}
		placed = true
	}

	return placed, nil
}

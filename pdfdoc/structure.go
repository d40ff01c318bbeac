package pdfdoc

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// readContext validates the document and resolves its object table.
func readContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	return api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
}

// recognizeImages runs OCR over the images embedded in the document's
// pages. A failed recognition costs that image, not the document.
func recognizeImages(doc *parser.Document, pctx *model.Context, w io.Writer) error {
	if pctx.Optimize == nil {
		return nil
	}
	cfg := *doc.Ctx.OCR
	seen := make(map[int]bool)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		for _, objNr := range pdfcpu.ImageObjNrs(pctx, pageNr) {
			if seen[objNr] {
				continue
			}
			seen[objNr] = true

			img, ok := jpegStream(pctx, objNr)
			if !ok {
				continue
			}
			text, err := ocr.Recognize(img, cfg)
			if err != nil {
				doc.Ctx.Log.Warn("image recognition failed",
					"resource", doc.Name(), "page", pageNr,
					"object", objNr, "reason", err)
				continue
			}
			if text == "" {
				continue
			}
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// jpegStream returns the raw bytes of an image object when they form a
// complete JPEG file (DCTDecode). Other encodings hold bare samples and
// would need rendering before recognition.
func jpegStream(pctx *model.Context, objNr int) ([]byte, bool) {
	entry := pctx.Table[objNr]
	if entry == nil || entry.Free || entry.Compressed {
		return nil, false
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return nil, false
	}
	dct := false
	for _, f := range sd.FilterPipeline {
		if f.Name == "DCTDecode" {
			dct = true
			break
		}
	}
	if !dct || len(sd.Raw) == 0 {
		return nil, false
	}
	return sd.Raw, true
}

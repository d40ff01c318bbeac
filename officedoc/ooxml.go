package officedoc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
)

// wordRule linearizes WordprocessingML and DrawingML bodies: character
// data lives in <w:t>/<a:t> runs, paragraphs and breaks become newlines.
var wordRule = textRule{
	text:  map[string]bool{"t": true},
	after: map[string]string{"p": "\n", "br": "\n", "tab": "\t"},
}

func parseDocx(zr *zip.Reader, meta *metadata.Metadata, w io.Writer) error {
	applyOOXMLProps(zr, meta)

	body, err := archiveFile(zr, "word/document.xml")
	if err != nil {
		return fmt.Errorf("reading document body: %w", err)
	}
	if err := harvestXMLText(body, wordRule, w); err != nil {
		return err
	}

	// Headers and footers follow the body, like the visible page order.
	for _, part := range numberedParts(zr, "word/header", ".xml") {
		if err := harvestPart(part, wordRule, w); err != nil {
			return err
		}
	}
	for _, part := range numberedParts(zr, "word/footer", ".xml") {
		if err := harvestPart(part, wordRule, w); err != nil {
			return err
		}
	}
	return nil
}

func parsePptx(zr *zip.Reader, meta *metadata.Metadata, w io.Writer) error {
	applyOOXMLProps(zr, meta)

	slides := numberedParts(zr, "ppt/slides/slide", ".xml")
	if len(slides) == 0 {
		return fmt.Errorf("no slides found")
	}
	if meta.Get(metadata.PageCount) == "" {
		meta.Set(metadata.PageCount, strconv.Itoa(len(slides)))
	}

	for _, slide := range slides {
		if err := harvestPart(slide, wordRule, w); err != nil {
			return err
		}
	}

	// Speaker notes trail the slides they annotate.
	for _, notes := range numberedParts(zr, "ppt/notesSlides/notesSlide", ".xml") {
		if err := harvestPart(notes, wordRule, w); err != nil {
			return err
		}
	}
	return nil
}

// harvestPart reads one archived part and linearizes it. Parts that fail
// to open are skipped; write errors still abort.
func harvestPart(f *zip.File, rule textRule, w io.Writer) error {
	rc, err := f.Open()
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil
	}
	return harvestXMLText(data, rule, w)
}

func parseXlsx(zr *zip.Reader, meta *metadata.Metadata, w io.Writer) error {
	applyOOXMLProps(zr, meta)

	shared := loadSharedStrings(zr)

	wbData, err := archiveFile(zr, "xl/workbook.xml")
	if err != nil {
		return fmt.Errorf("reading workbook: %w", err)
	}
	var wb workbookXML
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return fmt.Errorf("unmarshaling workbook: %w", err)
	}

	rels := loadWorkbookRels(zr)
	meta.Set(metadata.PageCount, strconv.Itoa(len(wb.Sheets.Sheet)))

	for i, ref := range wb.Sheets.Sheet {
		target := rels[ref.RID]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}
		target = strings.TrimPrefix(target, "/")
		if !strings.HasPrefix(target, "xl/") {
			target = "xl/" + target
		}

		data, err := archiveFile(zr, target)
		if err != nil {
			continue
		}
		var ws worksheetXML
		if err := xml.Unmarshal(data, &ws); err != nil {
			continue
		}

		if _, err := io.WriteString(w, ref.Name+"\n"); err != nil {
			return err
		}
		for _, row := range ws.SheetData.Rows {
			values := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				values = append(values, cellValue(cell, shared))
			}
			line := strings.Join(values, "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// loadSharedStrings resolves the shared string table, concatenating rich
// text runs the way they render.
func loadSharedStrings(zr *zip.Reader) []string {
	data, err := archiveFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}

	shared := make([]string, len(sst.SI))
	for i, si := range sst.SI {
		if si.T != "" {
			shared[i] = si.T
			continue
		}
		var text strings.Builder
		for _, run := range si.R {
			text.WriteString(run.T)
		}
		shared[i] = text.String()
	}
	return shared
}

// loadWorkbookRels maps relationship IDs to worksheet targets.
func loadWorkbookRels(zr *zip.Reader) map[string]string {
	rels := make(map[string]string)
	data, err := archiveFile(zr, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return rels
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return rels
	}
	for _, rel := range parsed.Relationship {
		rels[rel.ID] = rel.Target
	}
	return rels
}

// cellValue resolves a cell to display text.
func cellValue(c cellXML, shared []string) string {
	switch c.T {
	case "s": // shared string
		idx, err := strconv.Atoi(c.V)
		if err == nil && idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "b": // boolean
		if c.V == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "inlineStr":
		if c.Is != nil {
			return c.Is.T
		}
		return ""
	default: // number, error, or formula result
		return c.V
	}
}

// applyOOXMLProps records docProps/core.xml and docProps/app.xml values.
// Both parts are optional.
func applyOOXMLProps(zr *zip.Reader, meta *metadata.Metadata) {
	if data, err := archiveFile(zr, "docProps/core.xml"); err == nil {
		var core corePropertiesXML
		if xml.Unmarshal(data, &core) == nil {
			setIfPresent(meta, metadata.Title, core.Title)
			setIfPresent(meta, metadata.Author, core.Creator)
			setIfPresent(meta, metadata.Subject, core.Subject)
			setIfPresent(meta, metadata.Keywords, core.Keywords)
			setIfPresent(meta, metadata.Description, core.Description)
		}
	}
	if data, err := archiveFile(zr, "docProps/app.xml"); err == nil {
		var app appPropertiesXML
		if xml.Unmarshal(data, &app) == nil {
			setIfPresent(meta, metadata.Creator, app.Application)
			if app.Pages > 0 {
				meta.Set(metadata.PageCount, strconv.Itoa(app.Pages))
			} else if app.Slides > 0 {
				meta.Set(metadata.PageCount, strconv.Itoa(app.Slides))
			}
		}
	}
}

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName xml.Name  `xml:"workbook"`
	Sheets  sheetsXML `xml:"sheets"`
}

type sheetsXML struct {
	Sheet []sheetRefXML `xml:"sheet"`
}

type sheetRefXML struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"` // r:id attribute for relationship
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName   xml.Name     `xml:"worksheet"`
	SheetData sheetDataXML `xml:"sheetData"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // row number (1-indexed)
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string        `xml:"r,attr"` // cell reference, e.g. "A1"
	T  string        `xml:"t,attr"` // type: s=shared string, b=bool, inlineStr, e=error
	V  string        `xml:"v"`      // value
	Is *inlineStrXML `xml:"is"`     // inline string (optional)
}

type inlineStrXML struct {
	T string `xml:"t"`
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name `xml:"sst"`
	SI      []siXML  `xml:"si"`
}

type siXML struct {
	T string       `xml:"t"` // simple text
	R []richRunXML `xml:"r"` // rich text runs
}

type richRunXML struct {
	T string `xml:"t"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
	Pages       int      `xml:"Pages"`
	Slides      int      `xml:"Slides"`
}

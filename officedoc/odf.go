package officedoc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
)

// odfRule linearizes OpenDocument content.xml: paragraphs, headings, and
// spans carry the character data, with ODF's explicit whitespace markers
// mapped back to characters.
var odfRule = textRule{
	text: map[string]bool{"p": true, "h": true, "span": true},
	after: map[string]string{
		"p":          "\n",
		"h":          "\n",
		"tab":        "\t",
		"line-break": "\n",
		"s":          " ",
	},
}

func parseODF(zr *zip.Reader, meta *metadata.Metadata, w io.Writer) error {
	applyODFMeta(zr, meta)

	content, err := archiveFile(zr, "content.xml")
	if err != nil {
		return fmt.Errorf("reading document content: %w", err)
	}
	return harvestXMLText(content, odfRule, w)
}

// applyODFMeta records meta.xml values. The part is optional.
func applyODFMeta(zr *zip.Reader, meta *metadata.Metadata) {
	data, err := archiveFile(zr, "meta.xml")
	if err != nil {
		return
	}

	var parsed odfMetaXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return
	}

	m := parsed.Meta
	setIfPresent(meta, metadata.Title, m.Title)
	setIfPresent(meta, metadata.Subject, m.Subject)
	setIfPresent(meta, metadata.Description, m.Description)
	setIfPresent(meta, metadata.Creator, m.Generator)
	if m.Creator != "" {
		setIfPresent(meta, metadata.Author, m.Creator)
	} else {
		setIfPresent(meta, metadata.Author, m.InitialCreator)
	}
	for _, kw := range m.Keywords {
		meta.Add(metadata.Keywords, kw)
	}
	setIfPresent(meta, metadata.PageCount, m.Stats.PageCount)
}

// odfMetaXML represents the meta.xml part of an OpenDocument file.
type odfMetaXML struct {
	XMLName xml.Name   `xml:"document-meta"`
	Meta    odfMetaBlk `xml:"meta"`
}

type odfMetaBlk struct {
	Title          string      `xml:"title"`
	Subject        string      `xml:"subject"`
	Description    string      `xml:"description"`
	Creator        string      `xml:"creator"`
	InitialCreator string      `xml:"initial-creator"`
	Keywords       []string    `xml:"keyword"`
	Generator      string      `xml:"generator"`
	Stats          odfStatsXML `xml:"document-statistic"`
}

type odfStatsXML struct {
	PageCount string `xml:"page-count,attr"`
}

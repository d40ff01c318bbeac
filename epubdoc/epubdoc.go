// Package epubdoc extracts text and metadata from EPUB publications.
//
// An EPUB is a ZIP container whose META-INF/container.xml names the OPF
// package document. The package document carries Dublin Core metadata plus
// the manifest of publication resources and the spine, which lists the
// XHTML content documents in reading order. Chapters are rendered to plain
// text in spine order; DRM-protected publications are rejected.
package epubdoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/suricats/vinci-bluescan-fscrawler/htmldoc"
	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

var (
	// ErrDRMProtected reports a publication whose content documents are
	// encrypted.
	ErrDRMProtected = errors.New("DRM-protected publication")

	// ErrNoRootfile reports a container.xml that declares no package
	// document.
	ErrNoRootfile = errors.New("no rootfile declared in container.xml")
)

// Parser extracts EPUB publications.
type Parser struct{}

// Types returns the claimed media types.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.EPUB}
}

// Parse renders the publication's spine to plain text and records its
// Dublin Core metadata. Spine entries whose content is missing or
// unreadable are skipped; write errors abort the parse.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	if err := checkDRM(zr); err != nil {
		return err
	}

	opfPath, err := rootfilePath(zr)
	if err != nil {
		return err
	}

	pkg, err := readPackage(zr, opfPath)
	if err != nil {
		return err
	}
	applyDublinCore(doc.Meta, &pkg.Meta)

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}
	manifest := make(map[string]opfItem, len(pkg.Items))
	for _, item := range pkg.Items {
		manifest[item.ID] = item
	}

	for _, ref := range pkg.Refs {
		item, ok := manifest[ref.IDRef]
		if !ok {
			continue
		}
		content, err := fileContent(zr, resolveHref(baseDir, item.Href))
		if err != nil {
			continue
		}
		cr, err := charset.NewReader(bytes.NewReader(content), "application/xhtml+xml")
		if err != nil {
			continue
		}
		root, err := html.Parse(cr)
		if err != nil {
			continue
		}
		if err := htmldoc.BodyText(root, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// containerXML is META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// rootfilePath locates the OPF package document via the container manifest.
func rootfilePath(zr *zip.Reader) (string, error) {
	data, err := fileContent(zr, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("reading container: %w", err)
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("parsing container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" && (rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "") {
			return rf.FullPath, nil
		}
	}
	if len(c.Rootfiles) > 0 && c.Rootfiles[0].FullPath != "" {
		return c.Rootfiles[0].FullPath, nil
	}
	return "", ErrNoRootfile
}

// opfPackage is the package document: Dublin Core metadata, the resource
// manifest, and the spine giving reading order.
type opfPackage struct {
	XMLName xml.Name   `xml:"package"`
	Meta    dublinCore `xml:"metadata"`
	Items   []opfItem  `xml:"manifest>item"`
	Refs    []spineRef `xml:"spine>itemref"`
}

type dublinCore struct {
	Title       string   `xml:"title"`
	Creators    []string `xml:"creator"`
	Language    string   `xml:"language"`
	Publisher   string   `xml:"publisher"`
	Description string   `xml:"description"`
	Subjects    []string `xml:"subject"`
}

type opfItem struct {
	ID   string `xml:"id,attr"`
	Href string `xml:"href,attr"`
}

type spineRef struct {
	IDRef string `xml:"idref,attr"`
}

func readPackage(zr *zip.Reader, opfPath string) (*opfPackage, error) {
	data, err := fileContent(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("reading package document: %w", err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package document: %w", err)
	}
	return &pkg, nil
}

// applyDublinCore copies package metadata onto the document record.
func applyDublinCore(meta *metadata.Metadata, dc *dublinCore) {
	set := func(name, value string) {
		if v := strings.TrimSpace(value); v != "" {
			meta.Set(name, v)
		}
	}
	set(metadata.Title, dc.Title)
	set(metadata.ContentLanguage, dc.Language)
	set(metadata.Producer, dc.Publisher)
	set(metadata.Description, dc.Description)
	for _, c := range dc.Creators {
		if v := strings.TrimSpace(c); v != "" {
			meta.Add(metadata.Author, v)
		}
	}
	for _, s := range dc.Subjects {
		if v := strings.TrimSpace(s); v != "" {
			meta.Add(metadata.Keywords, v)
		}
	}
}

// checkDRM rejects publications whose content documents are encrypted.
// META-INF/rights.xml marks Adobe ADEPT licensing; META-INF/encryption.xml
// is tolerated when it only declares font obfuscation.
func checkDRM(zr *zip.Reader) error {
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			return ErrDRMProtected

		case "META-INF/encryption.xml":
			rc, err := f.Open()
			if err != nil {
				return ErrDRMProtected
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return ErrDRMProtected
			}
			if contentEncrypted(data) {
				return ErrDRMProtected
			}
		}
	}
	return nil
}

// contentEncrypted reports whether encryption.xml covers content documents
// rather than just obfuscated fonts. Unparseable manifests count as
// encrypted.
func contentEncrypted(data []byte) bool {
	var enc struct {
		XMLName xml.Name `xml:"encryption"`
		Entries []struct {
			Method struct {
				Algorithm string `xml:"Algorithm,attr"`
			} `xml:"EncryptionMethod"`
			Cipher struct {
				Ref struct {
					URI string `xml:"URI,attr"`
				} `xml:"CipherReference"`
			} `xml:"CipherData"`
		} `xml:"EncryptedData"`
	}
	if err := xml.Unmarshal(data, &enc); err != nil {
		return true
	}

	for _, e := range enc.Entries {
		if fontObfuscation(e.Method.Algorithm) {
			continue
		}
		switch strings.ToLower(path.Ext(e.Cipher.Ref.URI)) {
		case ".xhtml", ".html", ".htm", ".xml", ".css":
			return true
		}
	}
	return false
}

// fontObfuscation matches the Adobe and IDPF font mangling algorithms,
// which are not DRM.
func fontObfuscation(algorithm string) bool {
	return strings.Contains(algorithm, "idpf.org/2008/embedding") ||
		strings.Contains(algorithm, "ns.adobe.com/pdf/enc")
}

// resolveHref resolves a manifest href against the package document's
// directory. Hrefs may be URL-escaped.
func resolveHref(baseDir, href string) string {
	if decoded, err := url.QueryUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return href
	}
	return path.Join(baseDir, href)
}

// fileContent returns the named archive entry's bytes.
func fileContent(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

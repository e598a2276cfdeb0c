package spreadsheet

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

const odsManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + odsMimeType + `"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const odsContentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content` +
	` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
	` xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"` +
	` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
	` office:version="1.2"><office:body><office:spreadsheet>`

const odsContentFooter = `</office:spreadsheet></office:body></office:document-content>`

// WriteODS writes rows to an OpenDocument spreadsheet with one table. All cells are strings.
// The package is the minimal one that office suites accept: an uncompressed mimetype entry
// first, followed by the manifest and the content.
func WriteODS(w io.Writer, sheet string, rows [][]string) error {
	zw := zip.NewWriter(w)

	mimetype, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("ods: %w", err)
	}
	if _, err := io.WriteString(mimetype, odsMimeType); err != nil {
		return fmt.Errorf("ods: %w", err)
	}

	manifest, err := zw.Create("META-INF/manifest.xml")
	if err != nil {
		return fmt.Errorf("ods: %w", err)
	}
	if _, err := io.WriteString(manifest, odsManifest); err != nil {
		return fmt.Errorf("ods: %w", err)
	}

	content, err := zw.Create("content.xml")
	if err != nil {
		return fmt.Errorf("ods: %w", err)
	}
	if err := writeODSContent(content, sheet, rows); err != nil {
		return fmt.Errorf("ods: %w", err)
	}
	return zw.Close()
}

func writeODSContent(w io.Writer, sheet string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(odsContentHeader)
	bw.WriteString(`<table:table table:name="`)
	if err := xml.EscapeText(bw, []byte(sheet)); err != nil {
		return err
	}
	bw.WriteString(`">`)
	for _, row := range rows {
		bw.WriteString("<table:table-row>")
		for _, cell := range row {
			if cell == "" {
				bw.WriteString("<table:table-cell/>")
				continue
			}
			bw.WriteString(`<table:table-cell office:value-type="string">`)
			for i, line := range strings.Split(cell, "\n") {
				if i > 0 {
					bw.WriteString("</text:p>")
				}
				bw.WriteString("<text:p>")
				if err := xml.EscapeText(bw, []byte(line)); err != nil {
					return err
				}
			}
			bw.WriteString("</text:p></table:table-cell>")
		}
		bw.WriteString("</table:table-row>")
	}
	bw.WriteString("</table:table>")
	bw.WriteString(odsContentFooter)
	return bw.Flush()
}

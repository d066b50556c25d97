package utils

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
)

// WriteCSV streams a UTF-8 CSV with a BOM so spreadsheet apps detect the
// encoding.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a minimal single-sheet workbook with inline string cells.
// Office Open XML spreadsheets are just zipped XML, which keeps export free
// of a spreadsheet dependency the same way import parsing is.
func WriteXLSX(w io.Writer, sheetName string, headers []string, rows [][]string) error {
	archive := zip.NewWriter(w)

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"xl/workbook.xml", fmt.Sprintf(workbookXML, escapeXML(sheetName))},
		{"xl/_rels/workbook.xml.rels", workbookRelsXML},
		{"xl/worksheets/sheet1.xml", sheetXML(headers, rows)},
	}

	for _, file := range files {
		entry, err := archive.Create(file.name)
		if err != nil {
			return err
		}
		if _, err := entry.Write([]byte(file.content)); err != nil {
			return err
		}
	}

	return archive.Close()
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>`

const workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="%s" sheetId="1" r:id="rId1"/></sheets>
</workbook>`

const workbookRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`

func sheetXML(headers []string, rows [][]string) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)

	writeRow(&buf, headers)
	for _, row := range rows {
		writeRow(&buf, row)
	}

	buf.WriteString(`</sheetData></worksheet>`)
	return buf.String()
}

func writeRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("<row>")
	for _, cell := range cells {
		buf.WriteString(`<c t="inlineStr"><is><t xml:space="preserve">`)
		buf.WriteString(escapeXML(cell))
		buf.WriteString(`</t></is></c>`)
	}
	buf.WriteString("</row>")
}

func escapeXML(value string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}

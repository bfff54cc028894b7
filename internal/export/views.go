package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
)

// WriteCSV writes the rows of one derived view with a header of column titles.
func WriteCSV(w io.Writer, columns []model.Column, view results.View) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range view.Rows {
		for i, col := range columns {
			record[i] = row.Get(col.Field).Text()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Document is the JSON form of every derived view of one product type.
type Document struct {
	ProductType model.ProductType `json:"product_type"`
	Tables      []Table           `json:"tables"`
}

// Table is the JSON form of one derived view.
type Table struct {
	Sort     *results.SortSpec `json:"sort,omitempty"`
	Category model.Category    `json:"category"`
	Title    string            `json:"title"`
	Rows     []model.Row       `json:"rows"`
	Shown    int               `json:"shown"`
	Total    int               `json:"total"`
}

// NewDocument converts views into their JSON form.
func NewDocument(productType model.ProductType, views []results.View) Document {
	doc := Document{
		ProductType: productType,
		Tables:      make([]Table, 0, len(views)),
	}
	for _, v := range views {
		rows := v.Rows
		if rows == nil {
			rows = []model.Row{}
		}
		doc.Tables = append(doc.Tables, Table{
			Category: v.Category,
			Title:    v.Category.Title(),
			Rows:     rows,
			Shown:    v.Counts.Shown,
			Total:    v.Counts.Total,
			Sort:     v.Sort,
		})
	}
	return doc
}

// WriteJSON writes documents as indented JSON: a single object for one
// document, an array otherwise.
func WriteJSON(w io.Writer, docs ...Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var payload any = docs
	if len(docs) == 1 {
		payload = docs[0]
	}
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("json: encode views: %w", err)
	}
	return nil
}

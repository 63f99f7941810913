package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/kmuentes1145/act8/internal/application/dto"
)

var header = []string{"nombre", "descripcion", "categoria", "precio", "stock", "codigo"}

// Row producto leído del CSV con su número de línea.
type Row struct {
	Line    int
	Request dto.ProductRequest
}

// ParseProducts lee el CSV completo. La cabecera es obligatoria; codigo vacío queda nil.
// Precio y stock mal formados abortan la lectura indicando la línea.
func ParseProducts(r io.Reader, latin1 bool) ([]Row, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archivo vacío")
		}
		return nil, err
	}
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(first[i], "\ufeff")), name) {
			return nil, fmt.Errorf("cabecera: se esperaba %q en la columna %d", name, i+1)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q inválido", line, rec[3])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock %q inválido", line, rec[4])
		}
		var code *string
		if c := strings.TrimSpace(rec[5]); c != "" {
			code = &c
		}
		rows = append(rows, Row{
			Line: line,
			Request: dto.ProductRequest{
				Name:        strings.TrimSpace(rec[0]),
				Description: strings.TrimSpace(rec[1]),
				Category:    strings.TrimSpace(rec[2]),
				Price:       &price,
				Stock:       &stock,
				Code:        code,
			},
		})
	}
	return rows, nil
}

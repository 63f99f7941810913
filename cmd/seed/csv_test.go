package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	in := "nombre,descripcion,categoria,precio,stock,codigo\n" +
		"Widget,Pieza,Ferretería,9.99,10,W-1\n" +
		"Tuerca,,,0.50,0,\n"

	rows, err := ParseProducts(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	w := rows[0]
	assert.Equal(t, 2, w.Line)
	assert.Equal(t, "Widget", w.Request.Name)
	assert.Equal(t, "Ferretería", w.Request.Category)
	assert.Equal(t, "9.99", w.Request.Price.String())
	assert.Equal(t, 10, *w.Request.Stock)
	require.NotNil(t, w.Request.Code)
	assert.Equal(t, "W-1", *w.Request.Code)

	assert.Nil(t, rows[1].Request.Code)
	assert.Equal(t, 0, *rows[1].Request.Stock)
}

func TestParseProducts_Latin1(t *testing.T) {
	// "Ferretería" con í = 0xED en ISO-8859-1
	in := "nombre,descripcion,categoria,precio,stock,codigo\n" +
		"Clavo,,Ferreter\xeda,1,5,\n"

	rows, err := ParseProducts(strings.NewReader(in), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ferretería", rows[0].Request.Category)
}

func TestParseProducts_Errores(t *testing.T) {
	cases := map[string]string{
		"vacío":    "",
		"cabecera": "name,descripcion,categoria,precio,stock,codigo\n",
		"precio":   "nombre,descripcion,categoria,precio,stock,codigo\nA,,,abc,1,\n",
		"stock":    "nombre,descripcion,categoria,precio,stock,codigo\nA,,,1,uno,\n",
		"columnas": "nombre,descripcion,categoria,precio,stock,codigo\nA,,,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProducts(strings.NewReader(in), false)
			assert.Error(t, err)
		})
	}
}

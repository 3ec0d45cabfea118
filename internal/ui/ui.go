// Package ui provides terminal output helpers.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseCatalogue_Fixture(t *testing.T) {
	info, copies, err := ParseCatalogue(openFixture(t, "catalogue.xml"), "T012345678")
	if err != nil {
		t.Fatalf("ParseCatalogue returned error: %v", err)
	}
	want := Info{CatalogNumber: "T012345678", Title: "Der Schwarm", Author: "Schätzing, Frank", Year: 2004, Copies: 2}
	if info != want {
		t.Fatalf("info = %#v, want %#v", info, want)
	}
	if len(copies) != 2 {
		t.Fatalf("len(copies) = %d, want 2", len(copies))
	}

	first := copies[0]
	if first.Number != "M58 123 456 7" || first.Owner != "Zentralbibliothek" {
		t.Fatalf("first copy = %#v", first)
	}
	if first.Status != StatusOnLoan || !first.Reserved {
		t.Fatalf("first copy status=%v reserved=%v, want on_loan reserved", first.Status, first.Reserved)
	}
	if !first.StatusChanged.Equal(time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first copy date = %v, want 2026-11-14", first.StatusChanged)
	}

	second := copies[1]
	if second.Status != StatusAvailable || second.Reserved {
		t.Fatalf("second copy status=%v reserved=%v, want available unreserved", second.Status, second.Reserved)
	}
	if !second.StatusChanged.IsZero() {
		t.Fatalf("second copy date = %v, want absent", second.StatusChanged)
	}
}

const catalogueTemplate = `<r><Items>
<Title>T</Title><Author>A</Author><YearOfPublication>2001</YearOfPublication><TotalItems>1</TotalItems>
<Item>%s</Item>
</Items></r>`

func catalogueWithItem(item string) string {
	return strings.Replace(catalogueTemplate, "%s", item, 1)
}

func TestParseCatalogue_OptionalFields(t *testing.T) {
	doc := catalogueWithItem(`<ItemNo>1</ItemNo><OwnerDescription>O</OwnerDescription><CurrentStatus>16</CurrentStatus>`)
	_, copies, err := ParseCatalogue(strings.NewReader(doc), "T1")
	if err != nil {
		t.Fatalf("ParseCatalogue returned error: %v", err)
	}
	if len(copies) != 1 || copies[0].Reserved || !copies[0].StatusChanged.IsZero() {
		t.Fatalf("copies = %#v, want one unreserved copy without date", copies)
	}
}

func TestParseCatalogue_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"not xml", "<r><Items>", ErrMalformedResponse},
		{"no items", "<r/>", ErrMalformedResponse},
		{"missing title", `<r><Items><Author>A</Author><YearOfPublication>1</YearOfPublication><TotalItems>0</TotalItems></Items></r>`, ErrMalformedResponse},
		{"empty title", `<r><Items><Title> </Title><Author>A</Author><YearOfPublication>1</YearOfPublication><TotalItems>0</TotalItems></Items></r>`, ErrMalformedResponse},
		{"empty item number", catalogueWithItem(`<ItemNo/><OwnerDescription>O</OwnerDescription><CurrentStatus>0</CurrentStatus>`), ErrMalformedResponse},
		{"bad year", `<r><Items><Title>T</Title><Author>A</Author><YearOfPublication>x</YearOfPublication><TotalItems>0</TotalItems></Items></r>`, ErrMalformedResponse},
		{"missing status", catalogueWithItem(`<ItemNo>1</ItemNo><OwnerDescription>O</OwnerDescription>`), ErrMalformedResponse},
		{"unknown status", catalogueWithItem(`<ItemNo>1</ItemNo><OwnerDescription>O</OwnerDescription><CurrentStatus>3</CurrentStatus>`), ErrUnrecognizedStatus},
		{"bad date", catalogueWithItem(`<ItemNo>1</ItemNo><OwnerDescription>O</OwnerDescription><CurrentStatus>10</CurrentStatus><StatusChangeDate>2026-01-02</StatusChangeDate>`), ErrMalformedResponse},
		{"bad reserved", catalogueWithItem(`<ItemNo>1</ItemNo><OwnerDescription>O</OwnerDescription><CurrentStatus>10</CurrentStatus><IsReserved>yes</IsReserved>`), ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseCatalogue(strings.NewReader(tc.doc), "T1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseCatalogue error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseStock_Fixture(t *testing.T) {
	branches, err := ParseStock(openFixture(t, "stock.xml"), "B42")
	if err != nil {
		t.Fatalf("ParseStock returned error: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("len(branches) = %d, want 2", len(branches))
	}
	central := branches[0]
	if central.Name != "Zentralbibliothek" || central.Copies != 2 || len(central.Items) != 2 {
		t.Fatalf("central = %#v", central)
	}
	if central.Items[0].LoanStatus != LoanOnLoan || central.Items[0].DueDate.IsZero() {
		t.Fatalf("central item 0 = %#v, want on loan with due date", central.Items[0])
	}
	if central.Items[1].LoanStatus != LoanAvailable || !central.Items[1].DueDate.IsZero() {
		t.Fatalf("central item 1 = %#v, want available without due date", central.Items[1])
	}
	if branches[1].Name != "Altona" || branches[1].Items[0].Shelf != "Schä" {
		t.Fatalf("altona = %#v", branches[1])
	}
}

func TestParseStock_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"missing copies", `<r><Branch><Name>N</Name></Branch></r>`, ErrMalformedResponse},
		{"empty name", `<r><Branch><Name/><Copies>1</Copies></Branch></r>`, ErrMalformedResponse},
		{"missing shelf", `<r><Branch><Name>N</Name><Copies>1</Copies><Item><IsOnLoan>0</IsOnLoan></Item></Branch></r>`, ErrMalformedResponse},
		{"unknown flag", `<r><Branch><Name>N</Name><Copies>1</Copies><Item><SHELF>S</SHELF><IsOnLoan>1</IsOnLoan></Item></Branch></r>`, ErrUnrecognizedStatus},
		{"bad due date", `<r><Branch><Name>N</Name><Copies>1</Copies><Item><SHELF>S</SHELF><IsOnLoan>64</IsOnLoan><DueDate>soon</DueDate></Item></Branch></r>`, ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStock(strings.NewReader(tc.doc), "B1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseStock error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseStock_NoBranches(t *testing.T) {
	branches, err := ParseStock(strings.NewReader(`<StockStatusInfo/>`), "B1")
	if err != nil {
		t.Fatalf("ParseStock returned error: %v", err)
	}
	if len(branches) != 0 {
		t.Fatalf("branches = %#v, want none", branches)
	}
}

package document_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestEncode_MatchesGolden(t *testing.T) {
	const golden = "testdata/contact.golden.json"

	doc := document.New(testsupport.ContactSchema(),
		document.WithAuthor("Forms Team"),
		document.WithClock(testsupport.FixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))),
	)
	payload, err := document.Encode(doc, document.FormatJSON)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if testsupport.WriteMaybeGolden(t, golden, payload) {
		return
	}

	want := testsupport.MustReadGolden(t, golden)
	if string(want) != string(payload) {
		t.Fatalf("golden mismatch\nwant:\n%s\ngot:\n%s", want, payload)
	}

	decoded, err := document.Decode(want, document.FormatJSON)
	if err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	if diff := testsupport.DiffSchema(testsupport.ContactSchema(), decoded.Schema); diff != "" {
		t.Fatalf("golden schema mismatch (-want +got):\n%s", diff)
	}
}

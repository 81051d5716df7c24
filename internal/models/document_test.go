package models

import "testing"

func TestDocumentNormalise(t *testing.T) {
	doc := Document{
		FileName: "  ijazah.pdf ",
		Category: DocumentCategory(" Certificate "),
	}
	doc.Normalise()

	if doc.FileName != "ijazah.pdf" {
		t.Fatalf("unexpected file name: %q", doc.FileName)
	}
	if doc.Category != DocumentCategoryCertificate {
		t.Fatalf("unexpected category: %q", doc.Category)
	}
}

func TestDocumentKnownCategory(t *testing.T) {
	known := []DocumentCategory{
		DocumentCategoryProfileImage,
		DocumentCategoryCertificate,
		DocumentCategoryReportCard,
		DocumentCategoryAdminRecord,
	}
	for _, category := range known {
		doc := Document{Category: category}
		if !doc.KnownCategory() {
			t.Fatalf("expected %q to be a known category", category)
		}
	}

	doc := Document{Category: "mystery"}
	if doc.KnownCategory() {
		t.Fatal("expected unknown category to be rejected")
	}
}

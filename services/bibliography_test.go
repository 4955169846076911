package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paper-trail/models"
)

func TestFormatReference(t *testing.T) {
	title, author, publisher := "Cool roofs", "Doe, J.", "Nature"
	published := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	full := models.Source{
		URL: "https://example.com/a", SourceType: models.SourcePaper,
		Title: &title, Author: &author, Publisher: &publisher, PublishedAt: &published,
	}
	assert.Equal(t, "Doe, J. (2023-06-01). Cool roofs. Nature. [paper] https://example.com/a", FormatReference(full))

	bare := models.Source{URL: "https://example.com/b", SourceType: models.SourceVideo, IsArchived: true}
	assert.Equal(t, "Unknown Author (n.d.). Untitled. [video] https://example.com/b (archived)", FormatReference(bare))
}

func TestCitationLabel(t *testing.T) {
	assert.Equal(t, "[3]", CitationLabel(3))
	assert.Equal(t, "[?]", CitationLabel(0))
}

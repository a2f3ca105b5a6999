package pg

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/zirius/linkcloak/models"
	"github.com/zirius/linkcloak/test"
)

func setup(t *testing.T) *sqlx.DB {
	db, err := sqlx.Open("postgres", test.GetTestPgURL())
	assert.Nil(t, err)
	return db
}

func TestLink(t *testing.T) {
	db := setup(t)

	code := test.RandomCode(6)
	link := &models.Link{
		ShortCode:   code,
		OriginalURL: "https://example.com/promo",
		Created:     time.Now(),
	}

	// Test CreateLink
	err := CreateLink(db, link)
	assert.Nil(t, err)
	assert.NotZero(t, link.ID)

	// Test GetLink
	returnedLink, err := GetLink(db, code)
	assert.Nil(t, err)
	assert.Equal(t, link.OriginalURL, returnedLink.OriginalURL)

	// Duplicate short code must fail without touching the original.
	dup := &models.Link{
		ShortCode:   code,
		OriginalURL: "https://evil.example.com",
		Created:     time.Now(),
	}
	err = CreateLink(db, dup)
	assert.Equal(t, ErrConflict, err)

	returnedLink, err = GetLink(db, code)
	assert.Nil(t, err)
	assert.Equal(t, "https://example.com/promo", returnedLink.OriginalURL)

	// Test GetLinks
	links, err := GetLinks(db)
	assert.Nil(t, err)
	var found bool
	for _, l := range links {
		if l.ShortCode == code {
			found = true
			assert.Equal(t, 0, l.ClickCount)
		}
	}
	assert.True(t, found)
}

package pg

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zirius/linkcloak/models"
)

// ErrConflict is returned when a short code is already taken. The insert
// fails atomically on the unique constraint, leaving the existing link
// untouched.
var ErrConflict = errors.New("short code already exists")

// GetLink fetches a link by exact, case-sensitive short code. Returns
// sql.ErrNoRows when the code is unknown.
func GetLink(db *sqlx.DB, shortCode string) (*models.Link, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("id, short_code, original_url, created_at").
		From("links").
		Where(squirrel.Eq{"short_code": shortCode})

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Queryx(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var link models.Link
		if err := rows.StructScan(&link); err != nil {
			return nil, err
		}
		return &link, nil
	}
	return nil, sql.ErrNoRows
}

// GetLinkByID fetches a link by its opaque identifier.
func GetLinkByID(db *sqlx.DB, id int64) (*models.Link, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("id, short_code, original_url, created_at").
		From("links").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	var link models.Link
	if err := db.Get(&link, sqlStr, args...); err != nil {
		return nil, err
	}
	return &link, nil
}

func CreateLink(db *sqlx.DB, link *models.Link) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Insert("links").Columns("short_code, original_url, created_at").
		Values(link.ShortCode, link.OriginalURL, link.Created).
		Suffix("RETURNING id")

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return err
	}

	if err := db.QueryRow(sqlStr, args...).Scan(&link.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetLinks returns every link, newest first, with its visit count computed
// from the visits table.
func GetLinks(db *sqlx.DB) ([]models.LinkWithCount, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("links.id, links.short_code, links.original_url, links.created_at, count(visits.id) AS click_count").
		From("links").
		LeftJoin("visits ON visits.link_id = links.id").
		GroupBy("links.id, links.short_code, links.original_url, links.created_at").
		OrderBy("links.created_at desc")

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	var links []models.LinkWithCount

	rows, err := db.Queryx(sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var link models.LinkWithCount
		if err := rows.Scan(&link.ID, &link.ShortCode, &link.OriginalURL, &link.Created, &link.ClickCount); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

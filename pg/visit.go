package pg

import (
	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/zirius/linkcloak/models"
)

// CreateVisit appends one enrichment record. Visits are never updated or
// deleted afterwards.
func CreateVisit(db *sqlx.DB, visit *models.Visit) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Insert("visits").
		Columns("link_id, ip, country, city, isp, device_type, os, browser, user_agent, referrer, latitude, longitude, accuracy, properties, created_at").
		Values(visit.LinkID, visit.IP, visit.Country, visit.City, visit.ISP, visit.DeviceType,
			visit.OS, visit.Browser, visit.UserAgent, visit.Referrer,
			visit.Latitude, visit.Longitude, visit.Accuracy, visit.Properties, visit.Created).
		Suffix("RETURNING id")

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return err
	}

	if err := db.QueryRow(sqlStr, args...).Scan(&visit.ID); err != nil {
		return err
	}
	return nil
}

// GetVisits returns up to limit visits for a link, most recent first.
func GetVisits(db *sqlx.DB, linkID int64, limit uint64) ([]models.Visit, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("id, link_id, ip, country, city, isp, device_type, os, browser, user_agent, referrer, latitude, longitude, accuracy, properties, created_at").
		From("visits").
		Where(squirrel.Eq{"link_id": linkID}).
		OrderBy("created_at desc").
		Limit(limit)

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	var visits []models.Visit
	if err := db.Select(&visits, sqlStr, args...); err != nil {
		return nil, err
	}
	return visits, nil
}

func GetVisitCount(db *sqlx.DB, linkID int64) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("count(*)").
		From("visits").
		Where(squirrel.Eq{"link_id": linkID})

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.Get(&count, sqlStr, args...); err != nil {
		return 0, err
	}
	return count, nil
}

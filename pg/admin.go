package pg

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/zirius/linkcloak/models"
)

func GetAdmin(db *sqlx.DB, username string) (*models.Admin, error) {
	if username == "" {
		return nil, fmt.Errorf("username is empty")
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("*").
		From("admins").
		Where(squirrel.Eq{"username": username})

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}

	var admin models.Admin
	if err := db.Get(&admin, sqlStr, args...); err != nil {
		return nil, err
	}
	return &admin, nil
}

func CreateAdmin(db *sqlx.DB, admin *models.Admin) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Insert("admins").Columns("username, password, created").
		Values(admin.Username, admin.Password, admin.Created)

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return err
	}

	if _, err = db.Exec(sqlStr, args...); err != nil {
		return err
	}
	return nil
}

package models

import (
	"time"

	"github.com/guregu/null"
)

type Admin struct {
	Username string    `json:"username" db:"username"`
	Password string    `json:"-" db:"password"`
	Created  time.Time `json:"created" db:"created"`
	Updated  null.Time `json:"updated" db:"updated"`
}

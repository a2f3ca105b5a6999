package test

import (
	"math/rand"
	"os"

	"github.com/gin-gonic/gin"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ123456789"

func GetTestPgURL() string {
	database := os.Getenv("DATABASE_URL")
	if database == "" {
		database = "postgres://localhost:12345/postgres?sslmode=disable"
	}
	return database
}

// GetTestRouter returns a quiet gin engine for handler tests.
func GetTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// RandomCode generates a throwaway short code so tests never collide.
func RandomCode(n int) string {
	code := make([]byte, n)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}

package services

import (
	"os"
	"testing"

	"github.com/firstmoments/first-moments-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

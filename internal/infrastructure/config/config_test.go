package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db
  port: 5432
  user: library
  password: secret
  dbname: libraryhub
  loc: UTC
import:
  chunk_size: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Import.ChunkSize)
	assert.Equal(t, 30*time.Second, cfg.Import.PollInterval)
	assert.Equal(t, "libraryhub:imports", cfg.Queue.Stream)
	assert.Equal(t, "libraryhub.events", cfg.RabbitMQ.Exchange)
	assert.Equal(t,
		"host=db user=library password=secret dbname=libraryhub port=5432 sslmode=disable TimeZone=UTC",
		cfg.Database.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("LIBRARYHUB_DATABASE_PASSWORD", "from-env")
	t.Setenv("LIBRARYHUB_IMPORT_CHUNK_SIZE", "50")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 50, cfg.Import.ChunkSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"端口非法", "server:\n  port: 70000\n"},
		{"生产环境默认密钥", "server:\n  mode: release\n"},
		{"未知驱动", "database:\n  driver: oracle\n"},
		{"分块大小为0", "import:\n  chunk_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.config))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_MySQLDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver: "mysql", Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw",
		DBName: "libraryhub", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/libraryhub?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		d.DSN())
}

package shared_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"ibe_backend/internal/shared"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnv()
		defer clearConfigEnv()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := shared.Load()

			convey.Convey("Then the defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HTTP.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store.Driver, convey.ShouldEqual, "mysql")
				convey.So(cfg.CORS.AllowedOrigins, convey.ShouldResemble, []string{"http://localhost:5173"})
				convey.So(cfg.Cache.Enabled, convey.ShouldBeFalse)
				convey.So(cfg.HTTP.RequestTimeout, convey.ShouldEqual, time.Duration(0))
			})
		})

		convey.Convey("When environment variables are set", func() {
			setEnv("IBE_HTTP__ADDR", ":9090")
			setEnv("IBE_UPSTREAM__API_KEY", "secret")
			setEnv("IBE_UPSTREAM__BASE_URL", "https://pricing.example/graphql")
			setEnv("IBE_BLOB_STORAGE__LINK_EN", "https://blob.example/en.json")
			setEnv("IBE_CORS__ALLOWED_ORIGINS", "https://a.example, https://b.example")
			setEnv("IBE_CACHE__TTL", "90s")

			cfg, err := shared.Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HTTP.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Upstream.APIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.Upstream.BaseURL, convey.ShouldEqual, "https://pricing.example/graphql")
				convey.So(cfg.BlobStorage.LinkEn, convey.ShouldEqual, "https://blob.example/en.json")
				convey.So(cfg.CORS.AllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.Cache.TTL, convey.ShouldEqual, 90*time.Second)
			})
		})

		convey.Convey("When a YAML file and env are both given", func() {
			path := writeConfigFile(t, `
app_env: dev
blob_storage:
  link_en: https://blob.example/file-en.json
  link_de: https://blob.example/file-de.json
store:
  driver: mongo
http:
  addr: ":7070"
`)
			setEnv("IBE_CONFIG", path)
			setEnv("IBE_HTTP__ADDR", ":6060")

			cfg, err := shared.Load()

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AppEnv, convey.ShouldEqual, "dev")
				convey.So(cfg.Store.Driver, convey.ShouldEqual, "mongo")
				convey.So(cfg.BlobStorage.LinkDe, convey.ShouldEqual, "https://blob.example/file-de.json")
				convey.So(cfg.HTTP.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the file does not exist", func() {
			setEnv("IBE_CONFIG", "/non/existent/ibe.yaml")

			_, err := shared.Load()

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, shared.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the store driver is unknown", func() {
			setEnv("IBE_STORE__DRIVER", "postgres")

			_, err := shared.Load()

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, shared.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "store.driver")
			})
		})
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ibe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

var configEnvKeys = []string{
	"IBE_CONFIG",
	"IBE_HTTP__ADDR",
	"IBE_UPSTREAM__API_KEY",
	"IBE_UPSTREAM__BASE_URL",
	"IBE_BLOB_STORAGE__LINK_EN",
	"IBE_CORS__ALLOWED_ORIGINS",
	"IBE_CACHE__TTL",
	"IBE_STORE__DRIVER",
}

func setEnv(k, v string) { _ = os.Setenv(k, v) }

func clearConfigEnv() {
	for _, k := range configEnvKeys {
		_ = os.Unsetenv(k)
	}
}

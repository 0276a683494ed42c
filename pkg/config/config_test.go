package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/config"
)

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file and fills in the rest", func() {
			writeConfig(`version = 0

[client]
backend_target = "https://lorcana.example.com"
timeout = "5s"
rate_limit = 2.5

[search]
result_count = 12

[weights]
ability = 0.3
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Client.BackendTarget).To(Equal("https://lorcana.example.com"))
			Expect(time.Duration(cfg.Client.Timeout)).To(Equal(5 * time.Second))
			Expect(cfg.Client.RateLimit).To(Equal(2.5))
			Expect(cfg.Search.ResultCount).To(Equal(12))
			Expect(time.Duration(cfg.Search.Debounce)).To(Equal(300 * time.Millisecond))
			Expect(time.Duration(cfg.Poll.Interval)).To(Equal(time.Second))
			Expect(cfg.Web.Listen).To(Equal(":8090"))

			Expect(cfg.Weights["ability"]).To(Equal(0.3))
			Expect(cfg.Weights["ink_cost"]).To(Equal(0.15))
			Expect(cfg.Weights).To(HaveLen(len(card.Factors)))
		})

		It("returns error for malformed TOML", func() {
			writeConfig("[client\nbackend_target = ")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("returns error for an unparseable duration", func() {
			writeConfig("[poll]\ninterval = \"soon\"\n")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("persists the config so it loads back unchanged", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Client.BackendTarget = "http://cards.internal:10000"
			cfg.Search.Debounce = config.Duration(150 * time.Millisecond)
			cfg.Weights["tags"] = 0.02
			Expect(c.SaveConfig(cfg)).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`debounce = "150ms"`))
			Expect(string(data)).To(ContainSubstring("[weights]"))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError(ContainSubstring("nil config")))
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("round trips valid values",
			func(key, value, expected string) {
				Expect(c.SetConfigValue(key, value)).To(Succeed())
				got, err := c.GetConfigValue(key)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(expected))
			},
			Entry("backend target", "client.backend_target", "http://localhost:5000", "http://localhost:5000"),
			Entry("timeout", "client.timeout", "1m", "1m0s"),
			Entry("rate limit", "client.rate_limit", "4", "4"),
			Entry("result count", "search.result_count", "20", "20"),
			Entry("debounce", "search.debounce", "250ms", "250ms"),
			Entry("poll interval", "poll.interval", "2s", "2s"),
			Entry("web listen", "web.listen", ":9000", ":9000"),
			Entry("weight", "weights.lore_points", "0.2", "0.2"),
		)

		DescribeTable("rejects invalid values",
			func(key, value string) {
				Expect(c.SetConfigValue(key, value)).To(MatchError(ContainSubstring(key)))
			},
			Entry("non-numeric rate limit", "client.rate_limit", "fast"),
			Entry("negative rate limit", "client.rate_limit", "-1"),
			Entry("zero result count", "search.result_count", "0"),
			Entry("bad duration", "search.debounce", "quickly"),
			Entry("negative duration", "poll.interval", "-1s"),
			Entry("weight above one", "weights.ability", "1.5"),
		)

		It("returns error for unknown key", func() {
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("proxy.upstream")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("returns defaults when no config file exists", func() {
			got, err := c.GetConfigValue("client.backend_target")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("http://localhost:10000"))

			got, err = c.GetConfigValue("weights.ability")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("0.24"))

			got, err = c.GetConfigValue("client.rate_limit")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("0"))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("web.listen", ":7000")).To(Succeed())
			Expect(c.SetConfigValue("mcp.listen", ":7001")).To(Succeed())

			got, err := c.GetConfigValue("web.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(":7000"))
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("lists client settings first and every weight factor last", func() {
		keys := config.ValidConfigKeys()
		Expect(keys[0]).To(Equal("client.backend_target"))
		Expect(keys).To(HaveLen(8 + len(card.Factors)))
		Expect(keys[len(keys)-1]).To(Equal("weights.inkwell"))
		for _, k := range keys {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
	})

	It("rejects unknown keys", func() {
		Expect(config.IsValidConfigKey("weights.color")).To(BeFalse())
		Expect(config.IsValidConfigKey("")).To(BeFalse())
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("returns an empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML([]byte(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Client.BackendTarget).To(BeEmpty())
		Expect(cfg.Weights).To(BeNil())
	})
})

var _ = Describe("NewDefaultConfig", func() {
	It("carries default weights that sum to one", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.WeightVector().Sum()).To(BeNumerically("~", 1.0, 1e-9))
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("client.backend_target")).To(Equal("http://localhost:10000"))
		Expect(v.GetDuration("search.debounce")).To(Equal(300 * time.Millisecond))
		Expect(v.GetInt("search.result_count")).To(Equal(5))
		Expect(v.GetFloat64("weights.ability")).To(Equal(0.24))
	})

	It("reads config file values over defaults", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[poll]\ninterval = \"250ms\"\n"), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetDuration("poll.interval")).To(Equal(250 * time.Millisecond))
	})

	It("prefers SIMILICANA_ environment variables over the config file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[web]\nlisten = \":1\"\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv("SIMILICANA_WEB_LISTEN", ":2")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("web.listen")).To(Equal(":2"))
	})

	It("reads weight overrides from the environment", func() {
		GinkgoT().Setenv("SIMILICANA_WEIGHTS_ABILITY", "0.4")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Resolve(v).Weights[card.FactorAbility]).To(Equal(0.4))
	})
})

var _ = Describe("Flag registry", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "flags-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })
	})

	It("binds set flags over config values", func() {
		var backend string
		var count int
		cmd := &cobra.Command{Use: "find"}
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagBackend, &backend)
		config.AddIntFlag(cmd, config.ClientFlags, config.FlagResultCount, &count)
		Expect(cmd.Flags().Parse([]string{"-b", "http://flag:1", "--result-count", "9"})).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagBackend, config.FlagResultCount, "missing"})

		Expect(v.GetString("client.backend_target")).To(Equal("http://flag:1"))
		Expect(v.GetInt("search.result_count")).To(Equal(9))
	})

	It("falls through to config when the flag is not set", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[search]\ndebounce = \"1s\"\n"), 0o600)).To(Succeed())

		var debounce time.Duration
		cmd := &cobra.Command{Use: "tui"}
		config.AddDurationFlag(cmd, config.ClientFlags, config.FlagDebounce, &debounce)
		Expect(cmd.Flags().Parse(nil)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagDebounce})

		Expect(v.GetDuration("search.debounce")).To(Equal(time.Second))
	})

	It("takes name, shorthand and default from the registry", func() {
		var listen string
		var rate float64
		cmd := &cobra.Command{Use: "web"}
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagWebListen, &listen)
		config.AddFloatFlag(cmd, config.ClientFlags, config.FlagRateLimit, &rate)

		f := cmd.Flags().Lookup("listen")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("l"))
		Expect(f.DefValue).To(Equal(":8090"))
		Expect(cmd.Flags().Lookup("rate-limit").DefValue).To(Equal("0"))
	})
})

var _ = Describe("Resolve", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-resolve-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("collects defaults into settings", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		s := config.Resolve(v)
		Expect(s.BackendTarget).To(Equal("http://localhost:10000"))
		Expect(s.Timeout).To(Equal(30 * time.Second))
		Expect(s.ResultCount).To(Equal(5))
		Expect(s.Debounce).To(Equal(300 * time.Millisecond))
		Expect(s.WebListen).To(Equal(":8090"))
		Expect(s.MCPListen).To(Equal(":8091"))
		Expect(s.Weights.Sum()).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("reads weights from the config file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[weights]\nability = 0.5\n"), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		s := config.Resolve(v)
		Expect(s.Weights[card.FactorAbility]).To(Equal(0.5))
		Expect(s.Weights[card.FactorTags]).To(Equal(0.01))
	})

	It("builds a client for the backend target", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		c, err := config.Resolve(v).NewClient(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal("http://localhost:10000"))
	})
})

var _ = Describe("LoadSettings", func() {
	It("honours --config-dir and registry flags", func() {
		tmpDir, err := os.MkdirTemp("", "config-load-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[search]\nresult_count = 7\n"), 0o600)).To(Succeed())

		var backend string
		cmd := &cobra.Command{Use: "find"}
		cmd.Flags().String("config-dir", "", "")
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagBackend, &backend)
		Expect(cmd.Flags().Parse([]string{"--config-dir", tmpDir, "--backend", "http://flag:2"})).To(Succeed())

		s, err := config.LoadSettings(cmd, config.FlagBackend)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BackendTarget).To(Equal("http://flag:2"))
		Expect(s.ResultCount).To(Equal(7))
	})
})

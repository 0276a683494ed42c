package webcmder_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	webcmder "github.com/papercomputeco/similicana/cmd/similicana/web"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

func freeAddr() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer l.Close()
	return l.Addr().String()
}

func get(url string) (int, string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), err
}

var _ = Describe("web command", func() {
	var (
		backend *testutils.MockBackend
		tmpDir  string
		addr    string
	)

	start := func(args ...string) <-chan error {
		cmd := webcmder.NewWebCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(append(args,
			"--backend", backend.URL(),
			"--config-dir", tmpDir,
			"--listen", addr,
			"--poll-interval", "10ms",
		))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- cmd.ExecuteContext(ctx)
		}()
		DeferCleanup(func() {
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})
		return done
	}

	BeforeEach(func() {
		backend = testutils.NewMockBackend()
		DeferCleanup(backend.Close)
		addr = freeAddr()

		var err error
		tmpDir, err = os.MkdirTemp("", "similicana-web-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("serves the pages and reports readiness", func() {
		start()

		Eventually(func() string {
			_, body, _ := get("http://" + addr + "/status")
			return body
		}).Should(ContainSubstring(`"ready":true`))

		status, body, err := get("http://" + addr + "/")
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`id="cardSearch"`))
	})

	It("leaves MCP unmounted by default", func() {
		start()

		Eventually(func() error {
			_, _, err := get("http://" + addr + "/status")
			return err
		}).Should(Succeed())

		status, _, err := get("http://" + addr + "/mcp")
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("writes JSON logs to --log-file", func() {
		logFile := filepath.Join(tmpDir, "web.log")
		start("--log-file", logFile)

		Eventually(func() error {
			_, _, err := get("http://" + addr + "/status")
			return err
		}).Should(Succeed())
		Eventually(func() string {
			data, _ := os.ReadFile(logFile)
			return string(data)
		}).Should(ContainSubstring(`"msg":"starting web server"`))
	})
})

package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/similicana/api/mcp"
	"github.com/papercomputeco/similicana/pkg/client"
	similicanalogger "github.com/papercomputeco/similicana/pkg/logger"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var backend *client.Client

	BeforeEach(func() {
		mock := testutils.NewMockBackend()
		DeferCleanup(mock.Close)

		var err error
		backend, err = client.New(mock.URL())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when backend is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Logger: similicanalogger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Backend: backend,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates an empty server in noop mode", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("creates a server with valid config", func() {
			server, err := mcp.NewServer(mcp.Config{
				Backend: backend,
				Logger:  similicanalogger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
			Expect(server.MCPServer()).NotTo(BeNil())
		})
	})
})

package deckcmder_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	deckcmder "github.com/papercomputeco/similicana/cmd/similicana/deck"
	"github.com/papercomputeco/similicana/pkg/cliui"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

// syncBuffer is written by the command goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ = Describe("deck command", func() {
	var (
		backend     *testutils.MockBackend
		tmpDir      string
		out, errOut *syncBuffer
	)

	newCmd := func(stdin string, args ...string) *cobra.Command {
		cmd := deckcmder.NewDeckCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(out)
		cmd.SetErr(errOut)
		cmd.SetArgs(append(args, "--backend", backend.URL(), "--config-dir", tmpDir))
		return cmd
	}

	BeforeEach(func() {
		out = &syncBuffer{}
		errOut = &syncBuffer{}

		backend = testutils.NewMockBackend()
		DeferCleanup(backend.Close)
		backend.Set(func(b *testutils.MockBackend) {
			b.Deck = map[string]any{
				"html": "<h2>Curve</h2>",
				"final_deck": []map[string]any{
					{"name": "Elsa", "final_count": 4, "image_url": "elsa.png"},
					{"name": "Olaf", "final_count": 2, "image_url": "olaf.png"},
				},
			}
		})

		var err error
		tmpDir, err = os.MkdirTemp("", "similicana-deck-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("prints the final deck", func() {
		Expect(newCmd("4 Elsa\n2 Olaf", "--ignore-collection").Execute()).To(Succeed())

		Expect(backend.LastJSON).To(HaveKeyWithValue("decklist", "4 Elsa\n2 Olaf"))
		Expect(backend.LastJSON).To(HaveKeyWithValue("ignoreCollection", true))
		Expect(out.String()).To(ContainSubstring("Olaf"))
	})

	It("exports plain deck lines", func() {
		Expect(newCmd("4 Elsa", "--export").Execute()).To(Succeed())
		Expect(out.String()).To(Equal("4 Elsa\n2 Olaf\n"))
	})

	It("alerts on a malformed final deck", func() {
		backend.Set(func(b *testutils.MockBackend) {
			b.Deck = map[string]any{"html": "", "final_deck": "pending"}
		})

		err := newCmd("4 Elsa").Execute()
		Expect(err).To(MatchError(cliui.ErrReported))
		Expect(errOut.String()).To(ContainSubstring("Final deck data is not in the expected format."))
	})

	It("requires a file to watch", func() {
		Expect(newCmd("", "--watch").Execute()).To(MatchError(ContainSubstring("--watch needs a decklist file")))
	})

	It("analyzes the decklist again when it is saved", func() {
		path := filepath.Join(tmpDir, "deck.txt")
		Expect(os.WriteFile(path, []byte("4 Elsa\n"), 0o600)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- newCmd("", path, "--watch").ExecuteContext(ctx)
		}()

		Eventually(func() int { return backend.Count("/analyze_deck") }).Should(Equal(1))
		Eventually(errOut.String).Should(ContainSubstring("Watching"))

		Expect(os.WriteFile(path, []byte("4 Elsa\n2 Olaf\n"), 0o600)).To(Succeed())
		Eventually(func() int { return backend.Count("/analyze_deck") }).Should(Equal(2))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})

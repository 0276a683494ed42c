package batchcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	batchcmder "github.com/papercomputeco/similicana/cmd/similicana/batch"
	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/progress"
	testutils "github.com/papercomputeco/similicana/pkg/utils/test"
)

var _ = Describe("batch command", func() {
	var (
		backend     *testutils.MockBackend
		tmpDir      string
		out, errOut bytes.Buffer
	)

	newCmd := func(stdin string, args ...string) *cobra.Command {
		cmd := batchcmder.NewBatchCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(append(args, "--backend", backend.URL(), "--config-dir", tmpDir))
		return cmd
	}

	BeforeEach(func() {
		out.Reset()
		errOut.Reset()

		backend = testutils.NewMockBackend()
		DeferCleanup(backend.Close)
		olaf := testutils.WithSimilarity(testutils.NewCard("Olaf", "Amber", 3, 1, 4, 1), 0.6, nil)
		backend.AddCard(testutils.NewCard("Elsa", "Amethyst", 3, 2, 4, 2), olaf)
		backend.AddCard(testutils.NewCard("Mickey Mouse", "Steel", 2, 2, 2, 1), olaf)

		var err error
		tmpDir, err = os.MkdirTemp("", "similicana-batch-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("reads the card list from stdin", func() {
		Expect(newCmd("3 Mickey Mouse\nMickey Mouse\n\n  Elsa\n").Execute()).To(Succeed())

		Expect(backend.LastJSON).To(HaveKeyWithValue("cards", ConsistOf("Mickey Mouse", "Elsa")))
		Expect(out.String()).To(ContainSubstring("Olaf"))
	})

	It("reads the card list from a file", func() {
		path := filepath.Join(tmpDir, "cards.txt")
		Expect(os.WriteFile(path, []byte("4 Elsa\n"), 0o600)).To(Succeed())

		Expect(newCmd("", path, "-n", "2").Execute()).To(Succeed())
		Expect(backend.LastJSON).To(HaveKeyWithValue("cards", ConsistOf("Elsa")))
		Expect(backend.LastJSON).To(HaveKeyWithValue("result_count", BeNumerically("==", 2)))
	})

	It("prints progress labels", func() {
		backend.Set(func(b *testutils.MockBackend) {
			b.Progress[progress.JobBatch] = []progress.Update{{Current: 1, Total: 1}}
		})

		Expect(newCmd("Elsa").Execute()).To(Succeed())
		Expect(errOut.String()).To(ContainSubstring("Processing cards: 0/0"))
	})

	It("alerts on an empty list", func() {
		err := newCmd("\n\n").Execute()
		Expect(err).To(MatchError(cliui.ErrReported))
		Expect(errOut.String()).To(ContainSubstring("Enter at least one card name"))
	})

	It("fails on a missing file", func() {
		err := newCmd("", filepath.Join(tmpDir, "missing.txt")).Execute()
		Expect(err).To(MatchError(ContainSubstring("reading card list")))
	})
})

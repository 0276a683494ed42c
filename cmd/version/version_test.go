package versioncmder_test

import (
	"bytes"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/similicana/cmd/version"
)

var _ = Describe("NewVersionCmd", func() {
	var out *bytes.Buffer

	run := func(args ...string) error {
		out = &bytes.Buffer{}
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("prints the build information", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version:"))
		Expect(out.String()).To(ContainSubstring("dev"))
		Expect(out.String()).To(ContainSubstring("HEAD"))
		Expect(out.String()).To(ContainSubstring(runtime.Version()))
	})

	It("prints just the version with --short", func() {
		Expect(run("--short")).To(Succeed())
		Expect(out.String()).To(Equal("dev\n"))
	})

	It("rejects arguments", func() {
		Expect(run("extra")).To(HaveOccurred())
	})
})

package seedcmder

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/khata/pkg/ledger"
)

var _ = Describe("seed command", func() {
	var (
		tmpDir  string
		origCwd string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "khata-seed-test-*")
		Expect(err).NotTo(HaveOccurred())

		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origCwd)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("writes the demo dataset to an explicit path", func() {
		dataPath := filepath.Join(tmpDir, "transactions.json")

		cmd := NewSeedCmd()
		cmd.SetArgs([]string{"--path", dataPath})
		Expect(cmd.Execute()).To(Succeed())

		raw, err := os.ReadFile(dataPath)
		Expect(err).NotTo(HaveOccurred())

		var records []ledger.Transaction
		Expect(json.Unmarshal(raw, &records)).To(Succeed())
		Expect(records).To(HaveLen(6))
		Expect(records[0].Customer).To(Equal("Amit"))
		Expect(records[0].Amount).To(Equal(55000))
	})

	It("defaults to the local .khata directory when one exists", func() {
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".khata"), 0o755)).To(Succeed())

		cmd := NewSeedCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())

		_, err := os.Stat(filepath.Join(tmpDir, ".khata", "transactions.json"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("refuses to overwrite an existing file", func() {
		dataPath := filepath.Join(tmpDir, "transactions.json")
		Expect(os.WriteFile(dataPath, []byte(`[]`), 0o644)).To(Succeed())

		cmd := NewSeedCmd()
		cmd.SetArgs([]string{"--path", dataPath})
		err := cmd.Execute()
		Expect(err).To(MatchError(ContainSubstring("refusing to overwrite")))
	})

	It("overwrites with --overwrite", func() {
		dataPath := filepath.Join(tmpDir, "transactions.json")
		Expect(os.WriteFile(dataPath, []byte(`[]`), 0o644)).To(Succeed())

		cmd := NewSeedCmd()
		cmd.SetArgs([]string{"--path", dataPath, "--overwrite"})
		Expect(cmd.Execute()).To(Succeed())

		raw, err := os.ReadFile(dataPath)
		Expect(err).NotTo(HaveOccurred())

		var records []ledger.Transaction
		Expect(json.Unmarshal(raw, &records)).To(Succeed())
		Expect(records).To(HaveLen(6))
	})
})

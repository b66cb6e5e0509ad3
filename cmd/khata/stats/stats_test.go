package statscmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statscmder "github.com/papercomputeco/khata/cmd/khata/stats"
)

var _ = Describe("NewStatsCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := statscmder.NewStatsCmd()
		Expect(cmd.Use).To(Equal("stats"))
	})

	It("rejects positional arguments", func() {
		cmd := statscmder.NewStatsCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has a --ledger-source flag with default value", func() {
		cmd := statscmder.NewStatsCmd()
		flag := cmd.Flags().Lookup("ledger-source")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("jsonfile"))
	})

	It("has a --ledger-path flag", func() {
		cmd := statscmder.NewStatsCmd()
		Expect(cmd.Flags().Lookup("ledger-path")).NotTo(BeNil())
	})
})

var _ = Describe("Stats command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "khata-stats-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// A local .khata keeps config resolution inside the sandbox.
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".khata"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("summarizes a jsonfile ledger", func() {
		dataPath := filepath.Join(tmpDir, "transactions.json")
		data := `[
  {"date": "2024-01-12", "customer": "Amit", "product": "Laptop", "amount": 55000},
  {"date": "2024-02-01", "customer": "Riya", "product": "Phone", "amount": 20000},
  {"date": "2024-02-15", "customer": "Priya", "product": "Headphones", "amount": 3000}
]`
		Expect(os.WriteFile(dataPath, []byte(data), 0o644)).To(Succeed())

		cmd := statscmder.NewStatsCmd()
		cmd.SetArgs([]string{"--ledger-path", dataPath})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("succeeds on an empty ledger", func() {
		dataPath := filepath.Join(tmpDir, "transactions.json")
		Expect(os.WriteFile(dataPath, []byte(`[]`), 0o644)).To(Succeed())

		cmd := statscmder.NewStatsCmd()
		cmd.SetArgs([]string{"--ledger-path", dataPath})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("fails when the data file is missing", func() {
		cmd := statscmder.NewStatsCmd()
		cmd.SetArgs([]string{"--ledger-path", filepath.Join(tmpDir, "missing.json")})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("loading ledger"))
	})

	It("fails on an unknown ledger source", func() {
		cmd := statscmder.NewStatsCmd()
		cmd.SetArgs([]string{"--ledger-source", "postgres"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported ledger source"))
	})
})

package apicmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apicmder "github.com/papercomputeco/khata/cmd/khata/serve/api"
)

var _ = Describe("NewAPICmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := apicmder.NewAPICmd()
		Expect(cmd.Use).To(Equal("api"))
	})

	It("registers the listen flag with its default", func() {
		cmd := apicmder.NewAPICmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("l"))
		Expect(flag.DefValue).To(Equal(":8081"))
	})

	It("registers the engine backend flags", func() {
		cmd := apicmder.NewAPICmd()
		Expect(cmd.Flags().Lookup("ledger-source")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("ledger-path")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("embedding-model")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("vector-store-collection")).NotTo(BeNil())
	})
})

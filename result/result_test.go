package result_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/zerbitx/gnockapi/result"
)

var _ = Describe("Result", func() {
	Context("Data and Fail", func() {
		It("carries a value", func() {
			r := result.Data(42)

			Expect(r.IsError()).To(BeFalse())
			Expect(r.Kind).To(Equal(result.KindData))

			v, err := r.Unwrap()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).To(Equal(42))
		})

		It("carries a failure usable as an error", func() {
			r := result.Failf[int]("Import failed", "missing.yaml not found", "check the path")

			Expect(r.IsError()).To(BeTrue())

			_, err := r.Unwrap()
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).To(Equal("Import failed: missing.yaml not found"))

			var failure *result.Failure
			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.Hints).To(ConsistOf("check the path"))
		})
	})

	Context("MergeErrors", func() {
		a := result.Fail[string](result.Failure{
			Title:    "first",
			Messages: []string{"a"},
			Hints:    []string{"h1", "shared"},
			Docs:     "https://example.com/first",
		})
		b := result.Fail[string](result.Failure{
			Title:    "second",
			Messages: []string{"b"},
			Hints:    []string{"shared", "h2"},
			Docs:     "https://example.com/second",
		})
		ok := result.Data("fine")

		It("returns nil when nothing failed", func() {
			Expect(result.MergeErrors([]result.Response[string]{ok, ok}, result.MergePolicy{Messages: true})).To(BeNil())
			Expect(result.MergeErrors[string](nil, result.MergePolicy{})).To(BeNil())
		})

		It("concatenates messages when asked to", func() {
			merged := result.MergeErrors([]result.Response[string]{a, ok, b}, result.MergePolicy{Messages: true})

			Expect(merged).NotTo(BeNil())
			Expect(merged.Messages).To(Equal([]string{"a", "b"}))
			Expect(merged.Title).To(Equal("first"))
			Expect(merged.Docs).To(Equal("https://example.com/first"))
			Expect(merged.Hints).To(Equal([]string{"h1", "shared"}))
		})

		It("keeps only the first failure's messages otherwise", func() {
			merged := result.MergeErrors([]result.Response[string]{a, b}, result.MergePolicy{})

			Expect(merged.Messages).To(Equal([]string{"a"}))
		})

		It("unions hints in order without duplicates", func() {
			merged := result.MergeErrors([]result.Response[string]{a, b}, result.MergePolicy{Hints: true})

			Expect(merged.Hints).To(Equal([]string{"h1", "shared", "h2"}))
		})

		It("does not alias the first failure's slices", func() {
			merged := result.MergeErrors([]result.Response[string]{a}, result.MergePolicy{})
			merged.Messages[0] = "changed"

			Expect(a.Failure.Messages).To(Equal([]string{"a"}))
		})
	})
})

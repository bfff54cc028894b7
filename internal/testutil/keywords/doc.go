// Package keywords provides test infrastructure for building classification
// results. It offers a fluent API for seeding rows into the four categories
// and predefined fixtures for common scenarios.
//
// # Basic Usage
//
//	result := keywords.NewBuilder(t).
//		WithTerm(model.CategoryPositiveNoB0, "blue widget", model.Number(0.2), 3).
//		WithTerms(model.CategoryNegativeNoB0, "cheap widget", "free widget").
//		Build()
//
// # Using Fixtures
//
//	result := keywords.NewBuilder(t).
//		WithFixture(keywords.FixtureMixedACOS).
//		Build()
//
// Rows keep the order they were added in, so natural-order assertions stay
// deterministic.
package keywords

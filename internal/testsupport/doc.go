// Package testsupport provides shared constructors for tests: temp-dir
// seeded configs, edit stores, and an in-memory content repository fake.
package testsupport

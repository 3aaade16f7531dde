// Package relocate redirects the build output directories of a root project
// and its subprojects to a shared location outside the project tree, and
// provides the cleanup task that erases that location.
//
// Relocation is an explicit data dependency: RelocateRoot returns the root's
// new directory and RelocateSubproject takes it as input, so subprojects can
// only be placed after the root has been. With the Gradle defaults a root at
// /proj/android relocated by "../../build" writes to /proj/build and a
// subproject named app writes to /proj/build/app.
package relocate

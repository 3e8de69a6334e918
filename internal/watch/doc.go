// Package watch reruns the vacancies pipeline whenever one of its data
// files changes. It watches the directories holding the sources, debounces
// bursts of events, and prints how the distribution summary moved between
// consecutive runs.
package watch

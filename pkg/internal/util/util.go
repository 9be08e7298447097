// Package util converts between plain Go maps and gotemplate dictionaries.
package util

import "github.com/coveooss/gotemplate/v3/collections"

// ToIDictionary lifts a string map into a gotemplate dictionary.
func ToIDictionary(m map[string]string) collections.IDictionary {
	d := collections.CreateDictionary()
	for k, v := range m {
		d.Set(k, v)
	}
	return d
}

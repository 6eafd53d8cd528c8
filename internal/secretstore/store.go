// Package secretstore persists notebook master keys outside the notebook
// file itself, in the platform's secret storage when available.
package secretstore

type Store interface {
	Put(name string, data []byte) error
	Get(name string) ([]byte, error)
	Delete(name string) error
}

var Default Store // set in init of each platform file

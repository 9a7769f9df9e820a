// Package config loads and saves weft.json project configuration.
package config

// Package config loads fern.json project configuration.
//
// Resolution is defaults, then the file if one exists, then FERN_*
// environment variables. A missing fern.json is not an error; the
// defaults describe a runnable local project.
package config

package design

import "errors"

var (
	ErrDesignNotFound = errors.New("design not found")
	ErrDesignExists   = errors.New("design already exists")
	ErrInvalidImage   = errors.New("file is not a valid image")
	ErrCatalogLoading = errors.New("catalog not available yet")
)

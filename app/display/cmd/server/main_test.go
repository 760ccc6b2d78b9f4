package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/search_upp/app/display/internal/conf"
)

func TestSearchConfig(t *testing.T) {
	assert.Equal(t, "<defaults>", searchConfig(nil))
	assert.Equal(t, "<defaults>", searchConfig(&conf.App{}))
	assert.Equal(t, "app/search_upp/configs/config.yaml", searchConfig(&conf.App{Config: "app/search_upp/configs/config.yaml"}))
}

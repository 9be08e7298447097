package internal

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDescriptor(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, DescriptorFile, []byte(`
description = "A tiny web service"

[[prompt]]
name = "Port"
prompt = "Which port does the service listen on?"
default = "8080"

[[prompt]]
name = "License"
prompt = "Pick a license"
required = true
choices = ["MIT", "Apache-2.0"]
`), 0644))

	d, err := ReadDescriptor(bfs)

	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "A tiny web service", d.Description)
	require.Len(t, d.Questions, 2)
	assert.Equal(t, "Port", d.Questions[0].Name)
	assert.Equal(t, "8080", d.Questions[0].Default)
	assert.False(t, d.Questions[0].Required)
	assert.Equal(t, "License", d.Questions[1].Name)
	assert.True(t, d.Questions[1].Required)
	assert.Equal(t, []string{"MIT", "Apache-2.0"}, d.Questions[1].Choices)
}

func TestReadDescriptorAbsent(t *testing.T) {
	d, err := ReadDescriptor(memfs.New())

	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestReadDescriptorReservedName(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, DescriptorFile, []byte(`
[[prompt]]
name = "ProjectName"
prompt = "Trying to shadow the project name"
`), 0644))

	_, err := ReadDescriptor(bfs)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestReadDescriptorUnnamedQuestion(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, DescriptorFile, []byte(`
[[prompt]]
prompt = "Who am I?"
`), 0644))

	_, err := ReadDescriptor(bfs)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestReadDescriptorMalformed(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, DescriptorFile, []byte(`description = [unbalanced`), 0644))

	_, err := ReadDescriptor(bfs)

	require.Error(t, err)
	assert.Contains(t, err.Error(), DescriptorFile)
}

func TestReadOverrides(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, OverrideFile, []byte(`Port = "9090"`), 0644))

	overrides, err := ReadOverrides(bfs)

	require.NoError(t, err)
	assert.True(t, overrides.Has("Port"))
	assert.Equal(t, "9090", overrides.Get("Port"))
}

func TestReadOverridesAbsent(t *testing.T) {
	overrides, err := ReadOverrides(memfs.New())

	require.NoError(t, err)
	assert.Equal(t, 0, overrides.Count())
}

func TestReadOverridesReservedName(t *testing.T) {
	bfs := memfs.New()
	require.NoError(t, util.WriteFile(bfs, OverrideFile, []byte(`Template = "evil"`), 0644))

	_, err := ReadOverrides(bfs)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

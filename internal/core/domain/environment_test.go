package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/forge/internal/core/domain"
)

func TestDependencyCondition_Active(t *testing.T) {
	release := domain.Release
	linuxDebug := domain.BuildEnvironment{Platform: domain.PlatformLinux, Configuration: domain.Debug}
	macosRelease := domain.BuildEnvironment{Platform: domain.PlatformMacOS, Configuration: domain.Release}

	tests := []struct {
		name      string
		condition domain.DependencyCondition
		env       domain.BuildEnvironment
		want      bool
	}{
		{"zero value is unconditional", domain.DependencyCondition{}, linuxDebug, true},
		{
			"platform match",
			domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformLinux, domain.PlatformAndroid}},
			linuxDebug,
			true,
		},
		{
			"platform mismatch",
			domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformMacOS}},
			linuxDebug,
			false,
		},
		{
			"configuration match",
			domain.DependencyCondition{Configuration: &release},
			macosRelease,
			true,
		},
		{
			"configuration mismatch",
			domain.DependencyCondition{Configuration: &release},
			linuxDebug,
			false,
		},
		{
			"platform matches but configuration does not",
			domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformLinux}, Configuration: &release},
			linuxDebug,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.condition.Active(tt.env))
		})
	}
}

func TestTarget_InteropModeFor(t *testing.T) {
	linux := domain.BuildEnvironment{Platform: domain.PlatformLinux, Configuration: domain.Debug}
	macos := domain.BuildEnvironment{Platform: domain.PlatformMacOS, Configuration: domain.Debug}

	target := &domain.Target{
		InteroperabilityMode: []domain.InteropSetting{
			{Mode: "C"},
			{Mode: "Cxx", Condition: domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformLinux}}},
		},
	}

	assert.Equal(t, "Cxx", target.InteropModeFor(linux))
	assert.Equal(t, "C", target.InteropModeFor(macos))
	assert.Equal(t, "", (&domain.Target{}).InteropModeFor(linux))
}

func TestTarget_HasBundleResources(t *testing.T) {
	assert.False(t, (&domain.Target{}).HasBundleResources())
	assert.True(t, (&domain.Target{
		Resources: []domain.Resource{{Rule: domain.ResourceRuleCopy, Path: "data.json"}},
	}).HasBundleResources())
	assert.True(t, (&domain.Target{
		Resources: []domain.Resource{{Rule: domain.ResourceRuleProcess, Path: "img.png"}},
	}).HasBundleResources())
}

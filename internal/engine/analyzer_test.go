package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/models"
)

func TestAnalyzerVisitsEveryClass(t *testing.T) {
	f := newFixture()
	var classes []*models.Declaration
	for i := 0; i < 20; i++ {
		c := class(fmt.Sprintf("C%d", i), jackson("JsonRootName", annotations.Params{"value": "c"}))
		field(c, "extras", mapType(), jackson("JsonAnyGetter", nil))
		classes = append(classes, c)
	}
	bad := class("Bad")
	field(bad, "extras", typ("String"), jackson("JsonAnyGetter", nil))
	classes = append(classes, bad)

	analyzer := NewAnalyzer(f.engine, WithWorkers(4))
	summary, err := analyzer.Run(context.Background(), models.NewGraph(classes), f.collector)

	require.NoError(t, err)
	assert.Len(t, summary.Results, 21)
	assert.Zero(t, summary.Skipped)
	assert.Len(t, summary.Eligible(), 20)
	assert.Equal(t, 1, summary.Failures())
	assert.Equal(t, 1, f.collector.Count())

	for i, r := range summary.Results[:20] {
		assert.Same(t, classes[i], r.Class)
		assert.Same(t, classes[i].Members[0], r.Bindings.AnyGetter())
	}
}

func TestAnalyzerCancelledBeforeStart(t *testing.T) {
	f := newFixture()
	classes := []*models.Declaration{class("A"), class("B")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewAnalyzer(f.engine).Run(ctx, models.NewGraph(classes), f.collector)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
	assert.Equal(t, 2, summary.Skipped)
}

func TestAnalyzerFailFast(t *testing.T) {
	f := newFixture()
	first := class("First")
	field(first, "extras", typ("String"), jackson("JsonAnyGetter", nil))
	second := class("Second")
	field(second, "extras", typ("String"), jackson("JsonAnyGetter", nil))

	analyzer := NewAnalyzer(f.engine, WithWorkers(1), WithFailFast(true))
	summary, err := analyzer.Run(context.Background(), models.NewGraph([]*models.Declaration{first, second}), f.collector)

	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Same(t, first, summary.Results[0].Class)
	assert.Equal(t, 1, summary.Skipped)
}

func TestAnalyzerMixinMarksTargetEligible(t *testing.T) {
	f := newFixture()
	target := class("Point")
	mixin := class("PointMixin", serde("SerdeMixin", annotations.Params{"value": annotations.ClassRef("com.example.Point")}))
	external := class("Orphan", serde("SerdeMixin", annotations.Params{"value": annotations.ClassRef("Missing")}))

	summary, err := NewAnalyzer(f.engine).Run(context.Background(),
		models.NewGraph([]*models.Declaration{target, mixin, external}), f.collector)

	require.NoError(t, err)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Eligible)
	assert.False(t, summary.Results[0].Bootstrapped)
	assert.True(t, f.engine.Query().IsSerializable(target))
	assert.Empty(t, f.collector.Diagnostics())
}

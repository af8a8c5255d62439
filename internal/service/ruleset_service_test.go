package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employercheck/internal/cache"
	"employercheck/internal/model"
)

func TestRulesetService_LookupCachesAbsence(t *testing.T) {
	ctx := context.Background()
	repo := newMemRulesets(californiaRuleset())
	svc := NewRulesetService(repo, cache.NewRulesetCache(newTestRedis(t), time.Minute))

	rs, err := svc.Lookup(ctx, "CA")
	require.NoError(t, err)
	require.NotNil(t, rs)
	assert.Equal(t, "California", rs.Name)

	_, err = svc.Lookup(ctx, "CA")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCount(), "second read served from cache")

	rs, err = svc.Lookup(ctx, "WY")
	require.NoError(t, err)
	assert.Nil(t, rs)
	rs, err = svc.Lookup(ctx, "WY")
	require.NoError(t, err)
	assert.Nil(t, rs)
	assert.Equal(t, 2, repo.getCount(), "absence is cached too")
}

func TestRulesetService_LookupSharesConcurrentReads(t *testing.T) {
	repo := newMemRulesets(californiaRuleset())
	repo.block = make(chan struct{})
	svc := NewRulesetService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := svc.Lookup(context.Background(), "CA")
			assert.NoError(t, err)
			assert.NotNil(t, rs)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(repo.block)
	wg.Wait()

	assert.Equal(t, 1, repo.getCount())
}

func TestRulesetService_LookupStoreError(t *testing.T) {
	repo := newMemRulesets()
	repo.fail = true
	svc := NewRulesetService(repo, nil)

	_, err := svc.Lookup(context.Background(), "CA")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRulesetService_PutInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := newMemRulesets(californiaRuleset())
	svc := NewRulesetService(repo, cache.NewRulesetCache(newTestRedis(t), time.Minute))

	_, err := svc.Lookup(ctx, "CA")
	require.NoError(t, err)

	updated := californiaRuleset()
	updated.Jurisdiction = "ca"
	updated.Completeness = model.CompletenessPartial
	require.NoError(t, svc.Put(ctx, updated))
	assert.Equal(t, "CA", updated.Jurisdiction)

	rs, err := svc.Lookup(ctx, "CA")
	require.NoError(t, err)
	assert.Equal(t, model.CompletenessPartial, rs.Completeness)
}

func TestRulesetService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewRulesetService(newMemRulesets(californiaRuleset()), nil)

	rs, err := svc.Get(ctx, " ca ")
	require.NoError(t, err)
	assert.Equal(t, "CA", rs.Jurisdiction)

	_, err = svc.Get(ctx, "NY")
	assert.ErrorIs(t, err, ErrRulesetNotFound)

	require.NoError(t, svc.Delete(ctx, "CA"))
	assert.ErrorIs(t, svc.Delete(ctx, "CA"), ErrRulesetNotFound)
}

func TestValidateRuleset(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(rs *model.Ruleset)
	}{
		{"unknown jurisdiction", func(rs *model.Ruleset) { rs.Jurisdiction = "ZZ" }},
		{"bad completeness", func(rs *model.Ruleset) { rs.Completeness = "mostly" }},
		{"bad category", func(rs *model.Ruleset) {
			rs.Branches["seasonal"] = model.LiabilityBranch{}
		}},
		{"negative amount", func(rs *model.Ruleset) {
			rs.Branches[model.CategoryGeneral] = model.LiabilityBranch{
				Wage: &model.WageThreshold{Amount: -1, Period: model.PeriodYear},
			}
		}},
		{"zero amount", func(rs *model.Ruleset) {
			rs.Branches[model.CategoryGeneral] = model.LiabilityBranch{
				Wage: &model.WageThreshold{Amount: 0, Period: model.PeriodQuarter},
			}
		}},
		{"negative weeks", func(rs *model.Ruleset) {
			rs.Branches[model.CategoryGeneral] = model.LiabilityBranch{
				Weeks: &model.WeeksThreshold{Count: -1},
			}
		}},
		{"bad period", func(rs *model.Ruleset) {
			rs.Branches[model.CategoryGeneral] = model.LiabilityBranch{
				Wage: &model.WageThreshold{Amount: 10, Period: "month"},
			}
		}},
		{"weeks out of range", func(rs *model.Ruleset) {
			rs.Branches[model.CategoryGeneral] = model.LiabilityBranch{
				Weeks: &model.WeeksThreshold{Count: 54},
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := californiaRuleset()
			tc.mutate(rs)
			assert.ErrorIs(t, ValidateRuleset(rs), ErrInvalidRuleset)
		})
	}

	assert.NoError(t, ValidateRuleset(californiaRuleset()))
	assert.ErrorIs(t, ValidateRuleset(nil), ErrInvalidRuleset)

	anyWeek := californiaRuleset()
	anyWeek.Branches[model.CategoryGeneral] = model.LiabilityBranch{Weeks: &model.WeeksThreshold{Count: 0}}
	assert.NoError(t, ValidateRuleset(anyWeek), "a zero weeks line is allowed")
}

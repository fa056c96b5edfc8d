package http

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// statementBuildGroup collapses concurrent builds of the same statement view
// model into a single service call.
var statementBuildGroup singleflight.Group

func singleflightBuild(ctx context.Context, key string, build func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	resultChan := statementBuildGroup.DoChan(key, func() (interface{}, error) {
		return build(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

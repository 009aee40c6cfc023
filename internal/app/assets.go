package app

import (
	"context"
)

// StartAssets launches background page and video loading and the video
// clock. It returns immediately; both stop when ctx is cancelled.
func StartAssets(ctx context.Context, env *Env) {
	env.Loader.Start(ctx, env.Config.TotalPages, env.Config.VideoSources(), env.Clock)
	go env.Clock.Run(ctx)
}

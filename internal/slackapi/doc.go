// Package slackapi is a small Slack Web API client covering the methods the
// modal bot needs: views.open, views.update, apps.connections.open and
// auth.test.
//
// View calls are never retried. A views.update rejected with hash_conflict
// surfaces as a modalerr StaleViewVersion error; authentication failures as
// Auth; everything else as Transport. apps.connections.open is only called
// while (re)connecting the Socket Mode client and is retried with exponential
// backoff.
//
// # Usage Example
//
//	client := slackapi.NewClient(botToken, appToken)
//
//	ref, err := client.OpenView(ctx, triggerID, desc)
//	if err != nil {
//	    return err
//	}
//	hash, err := client.UpdateView(ctx, ref, next)
package slackapi

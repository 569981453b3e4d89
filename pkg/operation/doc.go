// Package operation runs business logic as a railway pipeline.
//
// An Operation is an ordered list of tasks sharing a per-call Context. Step
// tasks run in order until one returns an error or Stop; pass tasks only stop
// the run by returning an error. When the run failed, failure tasks run in
// order for compensation. Every Call yields exactly one Result: the one a task
// attached to the Context, or the operation's Success or Failure.
//
//	var CreateUser = operation.New("CreateUser").
//		ContractFunc(func(b *schema.Builder) {
//			b.Attribute("email", schema.ValidateTag("email"))
//		}).
//		Step("persist", persist).
//		Failure("fail_operation_by_task", operation.FailByTask)
//
//	res := CreateUser.Call(ctx, map[string]any{"email": "ann@example.com"})
//	if !res.OK() {
//		log.Println(res.Code(), res.Message())
//	}
//
// A contract validates the call parameters with a schema before any other
// step. Violations end the run with an InvalidContract result whose code is the
// validation error category and whose message is the validation message.
package operation

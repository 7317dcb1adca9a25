package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(bootstrap, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(classify, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(dev, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(execCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(history, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(nameCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(prepare, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(query, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)

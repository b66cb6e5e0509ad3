package setup

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/khata/pkg/config"
)

// EngineFlags holds the flag targets every engine-hosting command shares.
// Both serve commands build a full engine, so the backend flags are
// registered here once instead of being duplicated per command.
type EngineFlags struct {
	LedgerSource string
	LedgerPath   string

	TopK uint

	VectorProvider   string
	VectorTarget     string
	VectorPath       string
	VectorCollection string

	EmbeddingProvider string
	EmbeddingTarget   string
	EmbeddingModel    string
	EmbeddingDims     uint

	BigQueryProject string
	BigQueryDataset string
	BigQueryTable   string
}

// EngineFlagKeys lists the registry keys AddEngineFlags registers. Pass it
// to config.BindRegisteredFlags so the flags join the viper precedence chain.
var EngineFlagKeys = []string{
	config.FlagLedgerSource,
	config.FlagLedgerPath,
	config.FlagTopK,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagVectorStorePath,
	config.FlagVectorStoreColl,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagBigQueryProject,
	config.FlagBigQueryDataset,
	config.FlagBigQueryTable,
}

// AddEngineFlags registers the engine backend flags on cmd.
func AddEngineFlags(cmd *cobra.Command, f *EngineFlags) {
	config.AddStringFlag(cmd, config.Flags, config.FlagLedgerSource, &f.LedgerSource)
	config.AddStringFlag(cmd, config.Flags, config.FlagLedgerPath, &f.LedgerPath)
	config.AddUintFlag(cmd, config.Flags, config.FlagTopK, &f.TopK)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &f.VectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &f.VectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStorePath, &f.VectorPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreColl, &f.VectorCollection)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &f.EmbeddingProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &f.EmbeddingTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &f.EmbeddingModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &f.EmbeddingDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagBigQueryProject, &f.BigQueryProject)
	config.AddStringFlag(cmd, config.Flags, config.FlagBigQueryDataset, &f.BigQueryDataset)
	config.AddStringFlag(cmd, config.Flags, config.FlagBigQueryTable, &f.BigQueryTable)
}

package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/capchain/capchain/internal/catalog"
	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/fsutil"
	"github.com/capchain/capchain/internal/schema"
)

// LoadDir parses every .hcl manifest under stagesPath and appends the stage
// definitions it declares, in file order. Syntax errors are fatal for the
// load; a role whose capability attributes cannot be evaluated is recorded
// with an empty capability set and a diagnostic, and the catalog build skips
// the malformed factory later.
func (r *Registry) LoadDir(ctx context.Context, stagesPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading stage manifests...", "path", stagesPath)

	filePaths, err := fsutil.FindFilesByExtension(stagesPath, ".hcl")
	if err != nil {
		return fmt.Errorf("walking stages path %s: %w", stagesPath, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl stage manifests found in path.", "path", stagesPath)
		return nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("parsing manifest %s: %w", filePath, diags)
		}

		var manifest schema.ManifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return fmt.Errorf("decoding manifest %s: %w", filePath, diags)
		}

		for _, stage := range manifest.Stages {
			r.add(newDefinition(ctx, filePath, stage))
		}
		logger.Debug("Loaded stage manifest file.", "file", filePath, "stages", len(manifest.Stages))
	}

	logger.Info("Registry loaded.", "stage_definitions", len(r.stages))
	return nil
}

// newDefinition resolves a manifest block into a StageDefinition.
func newDefinition(ctx context.Context, filePath string, stage *schema.StageManifest) *StageDefinition {
	def := &StageDefinition{name: stage.Type, description: stage.Description}
	def.inputs = resolveRoles(ctx, filePath, stage.Type, "input", stage.Inputs)
	def.outputs = resolveRoles(ctx, filePath, stage.Type, "output", stage.Outputs)
	return def
}

// resolveRoles evaluates the capability blocks of one role kind. Evaluation
// failures leave the role's capability set empty so the stage is excluded
// downstream instead of aborting the whole load.
func resolveRoles(ctx context.Context, filePath, stageType, kind string, blocks []*schema.CapsBlock) []catalog.Role {
	logger := ctxlog.FromContext(ctx)

	roles := make([]catalog.Role, 0, len(blocks))
	for i, block := range blocks {
		name := kind
		if len(blocks) > 1 {
			name = fmt.Sprintf("%s_%d", kind, i)
		}

		c, err := block.Caps()
		if err != nil {
			logger.Warn("Stage role has no extractable capability set; the stage will be skipped.",
				"file", filePath, "stage", stageType, "role", name, "error", err)
			roles = append(roles, emptyRole(name))
			continue
		}
		roles = append(roles, catalog.Role{Name: name, Caps: c})
	}
	return roles
}

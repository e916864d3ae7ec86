package claim

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracemark-io/tracemark/pkg/canonicalize"
)

// Build assembles an unsigned claim for a content snapshot.
//
// The hash assertion digests the raw content bytes directly — not a
// canonical JSON form — so the binding is to the exact bytes on disk.
// Every call mints a fresh instance id: two builds over identical input
// differ only in instance id and timestamp-bearing fields.
func Build(content string, actions []Action, format string) *Claim {
	if format == "" {
		format = "text/plain"
	}
	if actions == nil {
		actions = []Action{}
	}
	return &Claim{
		Format:         format,
		InstanceID:     "xmp:iid:" + uuid.NewString(),
		ClaimGenerator: GeneratorName + "/" + GeneratorVersion,
		ClaimGeneratorInfo: []GeneratorInfo{
			{Name: GeneratorName, Version: GeneratorVersion},
		},
		Assertions: []Assertion{
			{Label: LabelHashData, Data: HashAssertionData{
				Algorithm: HashAlgorithm,
				Hash:      canonicalize.HashBytes([]byte(content)),
			}},
			{Label: LabelActions, Data: ActionsAssertionData{Actions: actions}},
		},
	}
}

// NewCreatedAction records the initial creation of a document.
func NewCreatedAction(softwareAgent string) Action {
	return Action{
		Action:            ActionCreated,
		When:              now(),
		SoftwareAgent:     softwareAgent,
		DigitalSourceType: DigitalSourceHuman,
	}
}

// NewHumanEditAction records a human-originated edit.
func NewHumanEditAction(description, beforeHash, afterHash string, r *TextRange) Action {
	return Action{
		Action:            ActionEdited,
		When:              now(),
		DigitalSourceType: DigitalSourceHuman,
		Parameters: &ActionParams{
			Description: description,
			BeforeHash:  beforeHash,
			AfterHash:   afterHash,
			Range:       r,
		},
	}
}

// NewAIEditAction records a machine-assisted edit. The instruction and
// response are never stored — only their digests, so the provenance record
// commits to the exchange without disclosing it.
func NewAIEditAction(model, instruction, response, beforeHash, afterHash string, r *TextRange) Action {
	return Action{
		Action:            ActionEdited,
		When:              now(),
		SoftwareAgent:     GeneratorName + "/" + GeneratorVersion,
		DigitalSourceType: DigitalSourceMachine,
		Parameters: &ActionParams{
			Model:        model,
			PromptHash:   canonicalize.HashBytes([]byte(instruction)),
			ResponseHash: canonicalize.HashBytes([]byte(response)),
			BeforeHash:   beforeHash,
			AfterHash:    afterHash,
			Range:        r,
		},
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

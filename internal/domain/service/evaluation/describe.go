package evaluation

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"quality_evaluator/internal/domain/value"
)

// Describer builds the narrative description of an evaluation. The
// structure is fixed (intro, technical context, quality analysis,
// final verdict); the wording of each section is drawn uniformly from
// a template pool, so output varies across calls for the same input.
type Describer struct {
	mu     sync.Mutex
	random *rand.Rand
}

// NewDescriber accepts the randomness source explicitly so tests can
// seed it. The source is guarded by a mutex: rand.Rand itself is not
// safe for concurrent use.
func NewDescriber(random *rand.Rand) *Describer {
	return &Describer{random: random}
}

func (d *Describer) pick(options []string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return options[d.random.Intn(len(options))]
}

func (d *Describer) Generate(in Input, score int, classification value.Classification) string {
	var description strings.Builder

	description.WriteString(d.intro(in))
	description.WriteString(d.technicalContext(in))
	description.WriteString(d.qualityAnalysis(classification))
	description.WriteString(d.finalVerdict(score, classification))

	return strings.TrimSpace(description.String())
}

func (d *Describer) intro(in Input) string {
	intros := []string{
		"O projeto \"%s\" desenvolvido em %s demonstra características técnicas interessantes. ",
		"A aplicação \"%s\", construída com %s, apresenta uma proposta estrutural relevante. ",
		"O sistema \"%s\" implementado utilizando %s revela decisões arquiteturais específicas. ",
		"Analisando o projeto \"%s\" em %s, observam-se aspectos técnicos distintos. ",
	}

	return fmt.Sprintf(d.pick(intros), in.ProjectName, in.Language)
}

func (d *Describer) technicalContext(in Input) string {
	var context strings.Builder

	context.WriteString(fmt.Sprintf(d.pick([]string{
		"Com %d linhas de código e complexidade %d, ",
		"Totalizando %d linhas e nível de complexidade %d, ",
		"Estruturado em %d linhas com complexidade %d, ",
	}), in.LinesOfCode, in.Complexity))

	if in.HasTests {
		context.WriteString(d.pick([]string{
			"conta com cobertura de testes automatizados, ",
			"inclui validação por meio de testes, ",
			"possui suporte a testes automatizados, ",
		}))
	} else {
		context.WriteString(d.pick([]string{
			"não apresenta evidências de testes automatizados, ",
			"carece de cobertura de testes, ",
			"não demonstra validação automatizada, ",
		}))
	}

	if in.UsesGit {
		context.WriteString(d.pick([]string{
			"além de utilizar controle de versão com Git. ",
			"mantendo versionamento estruturado com Git. ",
			"fazendo uso adequado de controle de versão. ",
		}))
	} else {
		context.WriteString(d.pick([]string{
			"e não evidencia práticas formais de versionamento. ",
			"sem indicar uso estruturado de versionamento. ",
			"o que pode impactar rastreabilidade e colaboração. ",
		}))
	}

	return context.String()
}

func (d *Describer) qualityAnalysis(classification value.Classification) string {
	switch classification {
	case value.ClassificationExcelente:
		return d.pick([]string{
			"O conjunto de decisões técnicas indica alta maturidade arquitetural e alinhamento com boas práticas modernas. ",
			"A estrutura demonstra solidez, coesão e preocupação clara com qualidade e manutenção futura. ",
			"A implementação revela excelência técnica e forte aderência a princípios de engenharia de software. ",
		})
	case value.ClassificationBom:
		return d.pick([]string{
			"A solução apresenta consistência estrutural e bom domínio técnico. ",
			"Observa-se uma base sólida, ainda que existam oportunidades pontuais de refinamento. ",
			"O projeto demonstra organização e qualidade satisfatória na maior parte dos aspectos avaliados. ",
		})
	case value.ClassificationRegular:
		return d.pick([]string{
			"Embora funcional, a implementação poderia evoluir em termos de organização e robustez. ",
			"Existem pontos estruturais que merecem revisão para elevar o padrão técnico. ",
			"A base é aceitável, porém há espaço considerável para melhorias arquiteturais. ",
		})
	default:
		return d.pick([]string{
			"A estrutura atual evidencia fragilidades que comprometem a qualidade geral da solução. ",
			"São perceptíveis lacunas importantes em organização, padronização e boas práticas. ",
			"O projeto necessita de revisões estruturais significativas para atingir um nível técnico adequado. ",
		})
	}
}

func (d *Describer) finalVerdict(score int, classification value.Classification) string {
	var intensity string

	switch classification {
	case value.ClassificationExcelente:
		intensity = "desempenho excepcional"
	case value.ClassificationBom:
		intensity = "bom desempenho técnico"
	case value.ClassificationRegular:
		intensity = "desempenho mediano"
	default:
		intensity = "baixo desempenho técnico"
	}

	return fmt.Sprintf(d.pick([]string{
		"A pontuação final foi %d/100, refletindo um %s.",
		"Com score %d/100, o projeto demonstra %s.",
		"A avaliação consolidada atingiu %d/100, caracterizando um %s.",
	}), score, intensity)
}

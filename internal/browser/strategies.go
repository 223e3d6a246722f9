package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// strategy est une manière d'accomplir une étape de navigation. Les étapes
// essaient leurs stratégies dans l'ordre et s'arrêtent à la première qui
// aboutit, au lieu d'empiler des branchements ad hoc.
type strategy struct {
	name   string
	action chromedp.Action
}

// clickVisible clique sur le premier élément visible correspondant
func clickVisible(selector string, opts ...chromedp.QueryOption) chromedp.Action {
	opts = append(opts, chromedp.NodeVisible)
	return chromedp.Click(selector, opts...)
}

// fillVisible remplit le premier champ visible correspondant
func fillVisible(selector, value string, opts ...chromedp.QueryOption) chromedp.Action {
	opts = append(opts, chromedp.NodeVisible)
	return chromedp.SendKeys(selector, value, opts...)
}

// firstOf exécute chaque stratégie avec un court timeout individuel et
// renvoie le nom de la première qui réussit. L'épuisement de la liste est
// une erreur que l'appelant décide de traiter en échec dur ou en étape
// sautée, selon le contrat de l'étape.
func firstOf(ctx context.Context, timeout time.Duration, strategies []strategy) (string, error) {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.name)

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := chromedp.Run(attemptCtx, s.action)
		cancel()

		if err == nil {
			return s.name, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("no strategy succeeded (tried: %s)", strings.Join(names, ", "))
}

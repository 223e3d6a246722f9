package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
)

const (
	baseURL   = "https://www.geoguessr.com"
	signinURL = baseURL + "/signin"

	stepTimeout = 4 * time.Second
)

// ErrNoCredentials : ni cookie de session ni email/mot de passe fournis
var ErrNoCredentials = errors.New("no session cookie and no email/password provided")

var challengeURLPattern = regexp.MustCompile(`https?://[^/]+/challenge/[A-Za-z0-9_-]+`)

// Options paramètre la création par navigateur
type Options struct {
	Cookie   string // valeur du cookie _ncfa
	Email    string // alternative au cookie : connexion par formulaire
	Password string
	MapSlug  string
	Headed   bool // navigateur visible, pour le debug
}

// Result est le produit d'une création réussie
type Result struct {
	ChallengeURL string
	FreshCookie  string // _ncfa frais après connexion par identifiants, sinon vide
}

// CreateChallenge pilote un navigateur headless à travers l'interface web
// de GeoGuessr pour créer un challenge, quand l'API REST refuse. Flux
// linéaire : [connexion] → page de la carte → mode challenge → dialogue de
// création → confirmation → récupération de l'URL. Les étapes
// intermédiaires tolèrent les variations de l'interface (stratégies de
// sélection multiples) ; seules la connexion et l'extraction d'URL sont
// des échecs durs.
func CreateChallenge(ctx context.Context, opts Options) (*Result, error) {
	useCredentials := opts.Email != "" && opts.Password != ""
	if !useCredentials && opts.Cookie == "" {
		return nil, ErrNoCredentials
	}
	if opts.MapSlug == "" {
		opts.MapSlug = "world"
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1280, 800),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
	)
	if opts.Headed {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if useCredentials {
		if err := login(browserCtx, opts.Email, opts.Password); err != nil {
			return nil, fmt.Errorf("browser login failed: %w", err)
		}
	} else if err := injectSessionCookie(browserCtx, opts.Cookie); err != nil {
		return nil, fmt.Errorf("unable to inject session cookie: %w", err)
	}

	mapURL := baseURL + "/maps/" + opts.MapSlug
	logger.Info("Navigating to %s", mapURL)
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(mapURL),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		return nil, fmt.Errorf("unable to open map page: %w", err)
	}

	// Mode challenge (pastille "challenge" sur la page de la carte)
	if name, err := firstOf(browserCtx, stepTimeout, []strategy{
		{"exact text", clickVisible(`//*[text()="challenge"]`, chromedp.BySearch)},
		{"tab role", clickVisible(`//*[@role="tab"][contains(., "challenge")]`, chromedp.BySearch)},
		{"href attribute", clickVisible(`a[href*="challenge"]`, chromedp.ByQuery)},
	}); err != nil {
		logger.Warning("Could not select challenge mode, continuing: %v", err)
	} else {
		logger.Debug("Selected challenge mode via %s", name)
	}
	sleep(browserCtx, 2*time.Second)

	// Bouton Play (ouvre le dialogue de création)
	if name, err := firstOf(browserCtx, stepTimeout, []strategy{
		{"playButtons container", clickVisible(`[class*="playButtons"]`, chromedp.ByQuery)},
		{"play button text", clickVisible(`//button[contains(., "Play")]`, chromedp.BySearch)},
		{"play link text", clickVisible(`//a[contains(., "Play")]`, chromedp.BySearch)},
	}); err != nil {
		logger.Warning("Could not open play dialog, continuing: %v", err)
	} else {
		logger.Debug("Opened play dialog via %s", name)
	}
	sleep(browserCtx, 2500*time.Millisecond)

	// Confirmation de création
	if name, err := firstOf(browserCtx, stepTimeout, []strategy{
		{"create challenge button", clickVisible(`//button[contains(., "Create Challenge")]`, chromedp.BySearch)},
		{"data-cy attribute", clickVisible(`[data-cy="create-challenge"]`, chromedp.ByQuery)},
		{"create button", clickVisible(`//button[contains(., "Create")]`, chromedp.BySearch)},
	}); err != nil {
		logger.Warning("Could not click create button, continuing: %v", err)
	} else {
		logger.Debug("Confirmed creation via %s", name)
	}
	sleep(browserCtx, 5*time.Second)

	challengeURL, err := extractChallengeURL(browserCtx)
	if err != nil {
		return nil, err
	}

	result := &Result{ChallengeURL: challengeURL}
	if useCredentials {
		result.FreshCookie = sessionCookie(browserCtx)
	}
	return result, nil
}

// injectSessionCookie pose le cookie _ncfa avant toute navigation
func injectSessionCookie(ctx context.Context, cookie string) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookie("_ncfa", cookie).
			WithDomain(".geoguessr.com").
			WithPath("/").
			Do(ctx)
	}))
}

// login remplit et soumet le formulaire de connexion. Échec dur : sans
// session, rien d'autre n'est possible.
func login(ctx context.Context, email, password string) error {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(signinURL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return fmt.Errorf("unable to open sign-in page: %w", err)
	}

	if _, err := firstOf(ctx, stepTimeout, []strategy{
		{"type attribute", fillVisible(`input[type="email"]`, email, chromedp.ByQuery)},
		{"name attribute", fillVisible(`input[name="email"]`, email, chromedp.ByQuery)},
		{"placeholder", fillVisible(`//input[contains(@placeholder, "mail")]`, email, chromedp.BySearch)},
		{"label", fillVisible(`//label[contains(., "Email")]/following::input[1]`, email, chromedp.BySearch)},
	}); err != nil {
		return fmt.Errorf("email input not found: %w", err)
	}

	if _, err := firstOf(ctx, stepTimeout, []strategy{
		{"type attribute", fillVisible(`input[type="password"]`, password, chromedp.ByQuery)},
		{"name attribute", fillVisible(`input[name="password"]`, password, chromedp.ByQuery)},
		{"label", fillVisible(`//label[contains(., "Password")]/following::input[1]`, password, chromedp.BySearch)},
	}); err != nil {
		return fmt.Errorf("password input not found: %w", err)
	}

	if _, err := firstOf(ctx, stepTimeout, []strategy{
		{"log in text", clickVisible(`//button[contains(., "Log in")]`, chromedp.BySearch)},
		{"submit button", clickVisible(`button[type="submit"]`, chromedp.ByQuery)},
		{"submit input", clickVisible(`input[type="submit"]`, chromedp.ByQuery)},
		{"log in link", clickVisible(`//a[contains(., "Log in")]`, chromedp.BySearch)},
	}); err != nil {
		return fmt.Errorf("log in button not found: %w", err)
	}

	// Attendre la navigation hors de /signin
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		sleep(ctx, time.Second)
		var current string
		if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
			return fmt.Errorf("unable to read location after login: %w", err)
		}
		if !strings.Contains(current, "/signin") {
			logger.Success("Browser login succeeded")
			return nil
		}
	}
	return fmt.Errorf("still on sign-in page, wrong credentials or changed form")
}

// extractChallengeURL récupère l'URL du challenge : adresse courante,
// puis nouvelle attente, puis premier lien de challenge sur la page
func extractChallengeURL(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var current string
		if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
			return "", fmt.Errorf("unable to read page location: %w", err)
		}
		if match := challengeURLPattern.FindString(current); match != "" {
			return match, nil
		}
		sleep(ctx, 3*time.Second)
	}

	var href string
	var found bool
	attemptCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	err := chromedp.Run(attemptCtx, chromedp.AttributeValue(`a[href*="/challenge/"]`, "href", &href, &found, chromedp.ByQuery))
	cancel()
	if err == nil && found && href != "" {
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		return href, nil
	}

	return "", fmt.Errorf("could not recover a challenge url from the page")
}

// sessionCookie relit le _ncfa courant du navigateur (frais après login)
func sessionCookie(ctx context.Context) string {
	var value string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			if c.Name == "_ncfa" {
				value = c.Value
				return nil
			}
		}
		return nil
	}))
	if err != nil {
		logger.Warning("Could not read fresh session cookie: %v", err)
	}
	return value
}

func sleep(ctx context.Context, d time.Duration) {
	_ = chromedp.Run(ctx, chromedp.Sleep(d))
}

package server

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"gestion-assurance/internal/auth"
	"gestion-assurance/internal/config"
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "motdepasse123"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	if err != nil {
		t.Fatalf("ouverture sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("pool sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration: %v", err)
	}
	database.DB = db

	auth.Init(&config.Config{SessionCookie: "gestion_session"})

	return New(zap.NewNop())
}

func createBranche(t *testing.T, nom, ville string) models.Branche {
	t.Helper()
	branche := models.Branche{Nom: nom, Ville: ville}
	if err := database.DB.Create(&branche).Error; err != nil {
		t.Fatalf("création branche: %v", err)
	}
	return branche
}

func createUser(t *testing.T, username string, role models.Role, brancheID *uint) models.Utilisateur {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.Utilisateur{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		BrancheID:    brancheID,
		IsActive:     true,
		DateJoined:   time.Now(),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("création utilisateur: %v", err)
	}
	return user
}

func postForm(path string, values url.Values, cookies []*http.Cookie) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func get(path string, cookies []*http.Cookie) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func login(t *testing.T, app *fiber.App, username, password string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := app.Test(postForm("/login/", form, nil), -1)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("login: statut %d, attendu 302", resp.StatusCode)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: aucun cookie de session")
	}
	return cookies
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("lecture réponse: %v", err)
	}
	return string(b)
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/clients/", "/assurances/", "/branches/"} {
		resp, err := app.Test(get(path, nil), -1)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusFound {
			t.Errorf("GET %s: statut %d, attendu 302", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/login/") {
			t.Errorf("GET %s: redirection vers %q, attendu /login/", path, loc)
		}
	}
}

func TestHomeRedirectsAnonymousToLogin(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(get("/", nil), -1)
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login/" {
		t.Errorf("redirection vers %q, attendu /login/", loc)
	}
}

func TestLoginSuccessRedirectsToNext(t *testing.T) {
	app := setupApp(t)
	createUser(t, "alice", models.RoleAgent, nil)

	form := url.Values{"username": {"alice"}, "password": {testPassword}}
	resp, err := app.Test(postForm("/login/?next=/branches/", form, nil), -1)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/branches/" {
		t.Errorf("redirection vers %q, attendu /branches/", loc)
	}

	// La session établie donne accès aux pages protégées.
	resp, err = app.Test(get("/branches/", resp.Cookies()), -1)
	if err != nil {
		t.Fatalf("GET /branches/: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("GET /branches/ connecté: statut %d, attendu 200", resp.StatusCode)
	}
}

func TestLoginSuccessDefaultsToHome(t *testing.T) {
	app := setupApp(t)
	createUser(t, "alice", models.RoleAgent, nil)

	cookies := login(t, app, "alice", testPassword)

	resp, err := app.Test(get("/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Bienvenue alice !") {
		t.Error("le message de bienvenue n'apparaît pas sur l'accueil")
	}
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	app := setupApp(t)
	createUser(t, "alice", models.RoleAgent, nil)

	form := url.Values{"username": {"alice"}, "password": {"mauvais"}}
	resp, err := app.Test(postForm("/login/", form, nil), -1)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200 (formulaire réaffiché)", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Nom d'utilisateur ou mot de passe incorrect.") {
		t.Error("le message d'erreur n'apparaît pas")
	}

	// La session reste anonyme : les pages protégées redirigent toujours.
	resp, err = app.Test(get("/clients/", resp.Cookies()), -1)
	if err != nil {
		t.Fatalf("GET /clients/: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Errorf("statut %d, attendu 302", resp.StatusCode)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	app := setupApp(t)
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	resp, err := app.Test(get("/logout/", cookies), -1)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login/" {
		t.Errorf("redirection vers %q, attendu /login/", loc)
	}

	resp, err = app.Test(get("/clients/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /clients/: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Errorf("la session survit à la déconnexion (statut %d)", resp.StatusCode)
	}
}

func TestAgentCannotManageEmployees(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Nord", "Lille")
	createUser(t, "agent1", models.RoleAgent, &branche.ID)
	cookies := login(t, app, "agent1", testPassword)

	for _, path := range []string{"/employees/", "/employees/add/"} {
		resp, err := app.Test(get(path, cookies), -1)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusFound {
			t.Errorf("GET %s: statut %d, attendu 302", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/" {
			t.Errorf("GET %s: redirection vers %q, attendu /", path, loc)
		}
	}

	// Le message d'erreur est affiché sur la page d'accueil.
	resp, err := app.Test(get("/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if b := body(t, resp); !strings.Contains(b, "Vous n'avez pas les permissions nécessaires.") {
		t.Error("le message de permission n'apparaît pas")
	}
}

func TestAdminSeesEmployeeList(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Nord", "Lille")
	createUser(t, "chef", models.RoleBranchAdmin, &branche.ID)
	createUser(t, "agent1", models.RoleAgent, &branche.ID)
	cookies := login(t, app, "chef", testPassword)

	resp, err := app.Test(get("/employees/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /employees/: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200", resp.StatusCode)
	}
	b := body(t, resp)
	if !strings.Contains(b, "agent1") || !strings.Contains(b, "chef") {
		t.Error("la liste des employés est incomplète")
	}
}

func TestAdminCreatesEmployee(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Sud", "Marseille")
	createUser(t, "root", models.RoleSuperAdmin, nil)
	cookies := login(t, app, "root", testPassword)

	form := url.Values{
		"username":  {"nouvel.agent"},
		"email":     {"nouvel.agent@example.com"},
		"password1": {"secret123"},
		"password2": {"secret123"},
		"role":      {"Agent"},
		"branch":    {"1"},
	}
	resp, err := app.Test(postForm("/employees/add/", form, cookies), -1)
	if err != nil {
		t.Fatalf("POST /employees/add/: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/employees/" {
		t.Errorf("redirection vers %q, attendu /employees/", loc)
	}

	var created models.Utilisateur
	if err := database.DB.First(&created, "username = ?", "nouvel.agent").Error; err != nil {
		t.Fatalf("employé non persisté: %v", err)
	}
	if created.Role != models.RoleAgent {
		t.Errorf("rôle %q, attendu Agent", created.Role)
	}
	if created.BrancheID == nil || *created.BrancheID != branche.ID {
		t.Error("branche non reprise du formulaire")
	}
	if created.PasswordHash == "secret123" {
		t.Error("le mot de passe est stocké en clair")
	}
	if !auth.CheckPassword(created.PasswordHash, "secret123") {
		t.Error("le hash ne correspond pas au mot de passe soumis")
	}
}

func TestEmployeePasswordMismatchRerendersForm(t *testing.T) {
	app := setupApp(t)
	createUser(t, "root", models.RoleSuperAdmin, nil)
	cookies := login(t, app, "root", testPassword)

	form := url.Values{
		"username":  {"bob"},
		"email":     {"bob@example.com"},
		"password1": {"secret123"},
		"password2": {"autre456"},
		"role":      {"Agent"},
	}
	resp, err := app.Test(postForm("/employees/add/", form, cookies), -1)
	if err != nil {
		t.Fatalf("POST /employees/add/: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200 (formulaire réaffiché)", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Les deux mots de passe ne correspondent pas.") {
		t.Error("l'erreur de confirmation n'apparaît pas")
	}

	var count int64
	database.DB.Model(&models.Utilisateur{}).Where("username = ?", "bob").Count(&count)
	if count != 0 {
		t.Error("l'employé a été créé malgré le formulaire invalide")
	}
}

func TestClientCreateEndToEnd(t *testing.T) {
	app := setupApp(t)
	createBranche(t, "Branche Test", "Ville Test")
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	form := url.Values{
		"nom":              {"Doe"},
		"prenom":           {"John"},
		"adresse":          {"X"},
		"email":            {"j@x.com"},
		"telephone":        {"0123456789"},
		"branche":          {"1"},
		"date_inscription": {"2025-01-01"},
	}
	resp, err := app.Test(postForm("/clients/add/", form, cookies), -1)
	if err != nil {
		t.Fatalf("POST /clients/add/: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/clients/" {
		t.Errorf("redirection vers %q, attendu /clients/", loc)
	}

	var count int64
	database.DB.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Fatalf("clients persistés: %d, attendu 1", count)
	}

	resp, err = app.Test(get("/clients/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /clients/: %v", err)
	}
	b := body(t, resp)
	if !strings.Contains(b, "Doe") || !strings.Contains(b, "John") {
		t.Error("le client créé n'apparaît pas dans la liste")
	}
}

func TestClientFormValidationErrors(t *testing.T) {
	app := setupApp(t)
	createBranche(t, "Branche Test", "Ville Test")
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	form := url.Values{
		"nom":              {""},
		"prenom":           {"John"},
		"adresse":          {"X"},
		"email":            {"j@x.com"},
		"telephone":        {"0123456789"},
		"branche":          {"1"},
		"date_inscription": {"2025-01-01"},
	}
	resp, err := app.Test(postForm("/clients/add/", form, cookies), -1)
	if err != nil {
		t.Fatalf("POST /clients/add/: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200 (formulaire réaffiché)", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Le nom est obligatoire.") {
		t.Error("l'erreur de champ n'apparaît pas")
	}

	var count int64
	database.DB.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Error("un client invalide a été persisté")
	}
}

func TestClientListPagination(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Test", "Ville Test")
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	for i := 0; i < 15; i++ {
		client := models.Client{
			Nom:             "Client",
			Prenom:          string(rune('A' + i)),
			Adresse:         "X",
			Email:           "c@x.com",
			Telephone:       "0102030405",
			BrancheID:       branche.ID,
			DateInscription: time.Now(),
		}
		if err := database.DB.Create(&client).Error; err != nil {
			t.Fatalf("création client %d: %v", i, err)
		}
	}

	resp, err := app.Test(get("/clients/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /clients/: %v", err)
	}
	b := body(t, resp)
	if !strings.Contains(b, "Page 1 sur 2") {
		t.Error("la pagination n'apparaît pas sur la première page")
	}

	resp, err = app.Test(get("/clients/?page=2", cookies), -1)
	if err != nil {
		t.Fatalf("GET /clients/?page=2: %v", err)
	}
	if b := body(t, resp); !strings.Contains(b, "Page 2 sur 2") {
		t.Error("la seconde page n'est pas servie")
	}
}

func TestBrancheDeleteConfirmationThenDelete(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Est", "Strasbourg")
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	resp, err := app.Test(get("/branches/1/delete/", cookies), -1)
	if err != nil {
		t.Fatalf("GET confirmation: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, branche.Nom) {
		t.Error("la confirmation ne nomme pas la branche")
	}

	resp, err = app.Test(postForm("/branches/1/delete/", url.Values{}, cookies), -1)
	if err != nil {
		t.Fatalf("POST suppression: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("statut %d, attendu 302", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.Branche{}).Count(&count)
	if count != 0 {
		t.Error("la branche n'a pas été supprimée")
	}
}

func TestEditMissingClientReturns404(t *testing.T) {
	app := setupApp(t)
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	resp, err := app.Test(get("/clients/999/edit/", cookies), -1)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("statut %d, attendu 404", resp.StatusCode)
	}
}

func TestClientExport(t *testing.T) {
	app := setupApp(t)
	branche := createBranche(t, "Branche Test", "Ville Test")
	client := models.Client{
		Nom: "Doe", Prenom: "John", Adresse: "X", Email: "j@x.com",
		Telephone: "0123456789", BrancheID: branche.ID, DateInscription: time.Now(),
	}
	if err := database.DB.Create(&client).Error; err != nil {
		t.Fatalf("création client: %v", err)
	}
	createUser(t, "alice", models.RoleAgent, nil)
	cookies := login(t, app, "alice", testPassword)

	resp, err := app.Test(get("/clients/export/", cookies), -1)
	if err != nil {
		t.Fatalf("GET /clients/export/: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statut %d, attendu 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type %q, attendu un classeur Excel", ct)
	}
	if b := body(t, resp); len(b) == 0 {
		t.Error("classeur vide")
	}
}

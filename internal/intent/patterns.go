package intent

// pattern is one classification group. Table order is priority order on
// equal scores.
type pattern struct {
	typ    Type
	verbs  []string
	weight int
}

var intentPatterns = []pattern{
	{
		typ:    Search,
		verbs:  []string{"trouve", "trouv", "cherche", "montre", "affiche", "liste", "show", "find", "search", "voir tous", "quels"},
		weight: 3,
	},
	{
		typ:    Create,
		verbs:  []string{"crée", "créer", "nouveau", "nouvelle", "ajoute", "ajouter", "nouveau lead", "new", "créer un", "ouvrir un"},
		weight: 3,
	},
	{
		typ:    StatusChange,
		verbs:  []string{"statut", "status", "marque", "marquer", "archive", "archiver", "clôture", "ferme", "gagne", "perdu", "qualifie", "changer statut"},
		weight: 2,
	},
	{
		typ:    SendMessage,
		verbs:  []string{"envoie", "envoyer", "message", "whatsapp", "sms", "contacte", "contacter", "appelle", "appeler", "écris", "écrire"},
		weight: 2,
	},
	{
		typ:    Navigate,
		verbs:  []string{"va", "aller", "ouvre", "ouvrir", "navigue", "page", "go to", "tableau de bord", "dashboard", "calendrier", "dossiers", "annonces", "rapports"},
		weight: 1,
	},
}

// Checked in order; first hit wins.
var propertyTypes = []string{"t1", "t2", "t3", "t4", "t5", "studio", "villa", "appartement", "maison", "bureau", "local", "terrain"}

var cities = []string{"casablanca", "rabat", "marrakech", "fes", "agadir", "tanger", "meknes", "oujda", "tetouan"}

type statusWord struct {
	word string
	code string
}

var statusWords = []statusWord{
	{"nouveau", "NEW"},
	{"qualifié", "QUALIFIED"},
	{"qualification", "QUALIFYING"},
	{"rendez-vous", "APPOINTMENT"},
	{"rdv", "APPOINTMENT"},
	{"gagné", "WON"},
	{"perdu", "LOST"},
	{"archivé", "LOST"},
}

// navTarget maps query keywords to a section route.
type navTarget struct {
	keywords []string
	path     string
	label    string
}

var navTargets = []navTarget{
	{[]string{"dashboard", "tableau de bord"}, "/dashboard", "le tableau de bord"},
	{[]string{"dossier", "lead"}, "/dossiers", "les dossiers"},
	{[]string{"annonce"}, "/annonces", "les annonces"},
	{[]string{"calendrier", "rdv"}, "/calendar", "le calendrier"},
	{[]string{"rapport", "kpi"}, "/reports", "les rapports"},
	{[]string{"tâche", "task"}, "/tasks", "les tâches"},
}

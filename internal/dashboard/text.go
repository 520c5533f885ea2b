package dashboard

// Static page copy.
const (
	homeTitle   = "SHAPING AI MEDIA DASHBOARD"
	homeProject = "The international project 'Shaping 21st Century AI. Controversies and Closure in Media, Policy, and Research' " +
		"investigate the development of Artificial Intelligence (AI) as a socio-technical phenomenon. " +
		"The project's task aims at detecting criticism and promises around AI in the French media."

	databaseHeading = "Europresse Database"
	databaseBody    = "Corpus was extracted using search by keywords in the title and lead paragraph of articles. " +
		"National and regional French media publishing in French language. " +
		"The time period of 10 years from 1 January 2011 to 1 January 2021. " +
		"Metadata included such variables as content (text of the article), author (name of the author), " +
		"title (title of the article), journal (name of the media), date (date of the article publishing)."

	searchQuery = `"intelligence artificielle" OR "IA" OR "algorithme" OR "apprentissage profond" OR "apprentissage machine" ` +
		`OR "réseau de neurone" OR "machine learning" OR "deep learning" OR "neural network"`

	corpusHeading = "Text Corpus"
	corpusBody    = "Data wrangling included removal of missing values, duplicates, text pre-processing: unicode, lower casing, " +
		"links, special characters, punctuation, stopwords removal."

	analysisIntro = "Choose the time period you want to analyse."
	topicsIntro   = "Topics were extracted from the text corpus using the Latent Dirichlet Allocation (LDA) model. " +
		"The number of topics was selected manually through the comparison and selection of the highest Topic Coherence score."

	aboutText = "This dashboard presents the exploratory analysis of the French media discourse around AI from 2011 to 2021."
	aboutRepo = "Feel free to collaborate and comment on the work: https://github.com/yuliianikolaenko/SHAPING_AI_dashboard"
)

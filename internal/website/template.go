package website

import "html/template"

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Conference}} — Paper Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; color: #2c3e50; background: #f4f6f9; }
  header { background: linear-gradient(135deg, #1c3664 0%, #0a1f44 100%); color: white; padding: 40px 20px; text-align: center; }
  header h1 { margin: 0; font-weight: 600; }
  .stats { display: flex; justify-content: center; gap: 30px; margin-top: 20px; flex-wrap: wrap; }
  .stat { background: rgba(255,255,255,0.1); border-radius: 8px; padding: 10px 20px; }
  .stat b { display: block; font-size: 1.4em; }
  main { max-width: 1100px; margin: 0 auto; padding: 20px; }
  section { margin: 40px 0; }
  h2 { color: #1c3664; }
  .chips { margin: 10px 0 20px; }
  .chip { display: inline-block; background: #e3e9f2; color: #1c3664; border-radius: 14px; padding: 4px 12px; margin: 3px; font-size: 0.85em; cursor: pointer; }
  .chip.active { background: #1c3664; color: white; }
  .card { background: white; border-radius: 8px; padding: 18px 22px; margin: 14px 0; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .card h3 { margin: 0 0 6px; }
  .card .meta { color: #666; font-size: 0.9em; margin-bottom: 10px; }
  .score { float: right; background: #00c781; color: white; border-radius: 6px; padding: 2px 10px; font-weight: 600; }
  .badge { font-size: 0.8em; border-radius: 4px; padding: 1px 6px; margin-left: 6px; }
  .badge.award { background: #ffd700; color: #333; }
  .badge.liked { background: #e85d75; color: white; }
  .insight { margin: 6px 0; }
  .insight b { color: #1c3664; }
  .authors-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 14px; }
  .author-card { background: white; border-radius: 8px; padding: 14px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .author-card img { width: 56px; height: 56px; border-radius: 50%; object-fit: cover; float: left; margin-right: 10px; }
  .author-card .who { font-weight: 600; }
  .author-card .where { color: #666; font-size: 0.9em; }
  .author-card .counts { clear: both; padding-top: 8px; color: #888; font-size: 0.85em; }
  footer { text-align: center; color: #7a7a7a; font-size: 0.85em; padding: 30px; }
  footer a { color: #60a5fa; }
</style>
</head>
<body>
<header>
  <h1>{{.Conference}}</h1>
  <div class="stats">
    <div class="stat"><b>{{.Stats.Papers}}</b>papers</div>
    <div class="stat"><b>{{.Stats.HighRelevance}}</b>highly relevant</div>
    <div class="stat"><b>{{.Stats.Enriched}}</b>enriched</div>
    <div class="stat"><b>{{.Stats.Authors}}</b>authors</div>
  </div>
</header>
<main>
{{if .Synthesis}}
<section id="synthesis">
{{.Synthesis}}
</section>
{{end}}

<section id="papers">
  <h2>Papers</h2>
  {{if .Categories}}
  <div class="chips">
    <span class="chip active" data-category="">All</span>
    {{range .Categories}}<span class="chip" data-category="{{.}}">{{.}}</span>{{end}}
  </div>
  {{end}}
  {{range .Papers}}
  <div class="card paper" data-categories="{{range .Categories}}{{.}}|{{end}}">
    <span class="score">{{printf "%.0f" .Score}}</span>
    <h3>{{if .PDFURL}}<a href="{{.PDFURL}}" target="_blank">{{.Title}}</a>{{else}}{{.Title}}{{end}}
      {{if .Award}}<span class="badge award">award</span>{{end}}
      {{if .Liked}}<span class="badge liked">liked</span>{{end}}
    </h3>
    <div class="meta">{{.Authors}}{{if .Session}} · {{.Session}}{{end}}</div>
    {{if .Description}}<div class="insight"><b>About:</b> {{.Description}}</div>{{end}}
    {{if .KeyFindings}}<div class="insight"><b>Key findings:</b> {{.KeyFindings}}</div>{{end}}
    {{if .KeyContribution}}<div class="insight"><b>Contribution:</b> {{.KeyContribution}}</div>{{end}}
    {{if .Novelty}}<div class="insight"><b>Novelty:</b> {{.Novelty}}</div>{{end}}
    {{if .Categories}}<div class="chips">{{range .Categories}}<span class="chip">{{.}}</span>{{end}}</div>{{end}}
  </div>
  {{end}}
</section>

{{if .Authors}}
<section id="authors">
  <h2>Key Authors</h2>
  <div class="authors-grid">
    {{range .Authors}}
    <div class="author-card">
      {{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="{{.Name}}">{{end}}
      <div class="who">{{if .ProfileURL}}<a href="{{.ProfileURL}}" target="_blank">{{.Name}}</a>{{else}}{{.Name}}{{end}}</div>
      <div class="where">{{.Role}} · {{.Affiliation}}</div>
      <div class="counts">{{.PaperCount}} papers · {{.HighlyCount}} highly relevant · avg {{printf "%.1f" .AverageScore}}</div>
    </div>
    {{end}}
  </div>
</section>
{{end}}
</main>
<footer>
  Generated by <a href="https://github.com/aldro61/PaperAtlas" target="_blank">PaperAtlas</a>.
  Paper recommendations powered by <a href="https://scholar-inbox.com" target="_blank">Scholar Inbox</a>.
</footer>
<script>
(function () {
  var chips = document.querySelectorAll('#papers > .chips .chip');
  var cards = document.querySelectorAll('.card.paper');
  chips.forEach(function (chip) {
    chip.addEventListener('click', function () {
      chips.forEach(function (c) { c.classList.remove('active'); });
      chip.classList.add('active');
      var cat = chip.dataset.category;
      cards.forEach(function (card) {
        var match = !cat || card.dataset.categories.indexOf(cat + '|') !== -1;
        card.style.display = match ? '' : 'none';
      });
    });
  });
})();
</script>
</body>
</html>
`))
